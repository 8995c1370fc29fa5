package normalize

import (
	"testing"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<!DOCTYPE html>
<html><body><div id="zeus-root">
<div data-testid="divSRPContentProducts">
  <div data-testid="master-product-card">
    <a data-testid="lnkProductContainer" href="/toko-a/sepatu-lari?extParam=1">
      <img src="https://images.tokopedia-static.net/a.webp" alt="product-image">
      <span data-testid="spnSRPProdName">Sepatu Lari Pria</span>
      <span data-testid="spnSRPProdPrice">Rp150.000</span>
      <span data-testid="lblProductSlashPrice">Rp200.000</span>
      <span data-testid="spnSRPProdTabShopLoc">Jakarta Barat</span>
      <span data-testid="spnSRPShopName">Toko A</span>
      <img alt="badge official store" src="/os.png">
      <span data-testid="spnSRPProdRating">4.9</span>
      <span data-testid="spnSRPProdReview">(1,2rb)</span>
      <span>3rb+ terjual</span>
    </a>
  </div>
  <div data-testid="master-product-card">
    <a data-testid="lnkProductContainer" href="https://www.tokopedia.com/toko-b/kaos">
      <span data-testid="spnSRPProdName">Kaos Polos</span>
      <span data-testid="spnSRPShopName">Toko B</span>
      <div>Harga Rp45.000 saja</div>
    </a>
  </div>
  <div data-testid="master-product-card">
    <span data-testid="spnSRPShopName">Toko Tanpa Nama Produk</span>
  </div>
</div>
</div></body></html>`

func TestMarkup_MapsCards(t *testing.T) {
	batch, err := Markup([]byte(searchPage), 10)
	require.NoError(t, err)
	require.Len(t, batch.Products, 2)
	require.Len(t, batch.Shops, 2)

	first := batch.Products[0]
	assert.Equal(t, "Sepatu Lari Pria", first.Name)
	assert.Equal(t, "https://www.tokopedia.com/toko-a/sepatu-lari?extParam=1", first.URL)
	assert.Equal(t, "Rp150.000", first.Price)
	assert.Equal(t, "Rp200.000", first.OriginalPrice)
	assert.Equal(t, 25.0, first.DiscountPercent)
	assert.Equal(t, 4.9, first.Rating)
	assert.Equal(t, 1200, first.ReviewCount)
	assert.Equal(t, 3000, first.SoldCount)
	assert.Equal(t, "https://images.tokopedia-static.net/a.webp", first.ImageURL)
	assert.Equal(t, "Toko A", first.Shop.Name)
	assert.Equal(t, "Jakarta Barat", first.Shop.City)
	assert.True(t, first.Shop.IsOfficial)
	assert.Equal(t, hashID("shop-", "Toko A"), first.ShopID)

	second := batch.Products[1]
	assert.Equal(t, "Rp45.000", second.Price)
	assert.Equal(t, 0.0, second.Rating)
	assert.Equal(t, UnknownCity, second.Shop.City)
}

func TestMarkup_StableIdentifiers(t *testing.T) {
	a, err := Markup([]byte(searchPage), 10)
	require.NoError(t, err)
	b, err := Markup([]byte(searchPage), 10)
	require.NoError(t, err)

	assert.Equal(t, a.Products[0].ID, b.Products[0].ID)
	assert.NotEqual(t, a.Products[0].ID, a.Products[1].ID)
}

func TestMarkup_FallbackIDIgnoresLinkParameters(t *testing.T) {
	card := func(href string) string {
		return `<div id="zeus-root"><div data-testid="master-product-card">` +
			`<a data-testid="lnkProductContainer" href="` + href + `">` +
			`<span data-testid="spnSRPProdName">Sepatu Lari Pria</span>` +
			`<span data-testid="spnSRPShopName">Toko A</span>` +
			`<span data-testid="spnSRPProdPrice">Rp150.000</span></a></div></div>`
	}

	a, err := Markup([]byte(card("/toko-a/sepatu-lari?extParam=1")), 10)
	require.NoError(t, err)
	b, err := Markup([]byte(card("/toko-a/sepatu-lari?extParam=2&src=topads")), 10)
	require.NoError(t, err)

	require.Len(t, a.Products, 1)
	require.Len(t, b.Products, 1)
	assert.Equal(t, a.Products[0].ID, b.Products[0].ID)
	assert.Equal(t, hashID("p-", "Sepatu Lari Pria", hashID("shop-", "Toko A")), a.Products[0].ID)
	assert.NotEqual(t, a.Products[0].URL, b.Products[0].URL)
}

func TestMarkup_PageWithoutCardsIsSoftFailure(t *testing.T) {
	body := `<html><body><div id="zeus-root"><p>Oops, produk tidak ditemukan</p></div></body></html>`

	_, err := Markup([]byte(body), 10)

	assert.True(t, errors.IsSoftFailure(err))
}

func TestMarkup_ChallengePageIsSoftFailure(t *testing.T) {
	body := `<html><head><script src="/cdn-cgi/challenge-platform/cf-chl-bypass.js"></script></head><body></body></html>`

	_, err := Markup([]byte(body), 10)

	assert.True(t, errors.IsSoftFailure(err))
}

func TestMarkup_UnrecognizedPageIsSchemaError(t *testing.T) {
	_, err := Markup([]byte(`<html><body><h1>Hello</h1></body></html>`), 10)

	assert.True(t, errors.IsSchema(err))
}
