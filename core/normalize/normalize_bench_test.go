package normalize

import (
	"testing"
)

func BenchmarkMarkup(b *testing.B) {
	body := []byte(searchPage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Markup(body, 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParsePrice(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ParsePrice("Rp1.250.000")
	}
}
