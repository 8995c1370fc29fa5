// ABOUTME: Lenient JSON scalar types for upstream fields whose type drifts
// ABOUTME: Numbers may arrive as strings, badges as a single object or a list

package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(b))
	return nil
}

// flexFloat accepts a JSON number or a numeric string; anything else,
// including NaN and infinities, is zero
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(string(s), ",", ".")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON number or a numeric string, truncating fractions
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var v flexFloat
	if err := v.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexInt(int(v))
	return nil
}

// flexBool accepts a JSON bool, a number or a "true"/"1" string
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

type rawBadge struct {
	Title flexString `json:"title"`
	Show  *flexBool  `json:"show"`
}

// badgeList accepts either a single badge object or an array of them
type badgeList []rawBadge

func (l *badgeList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '{' {
		var one rawBadge
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*l = badgeList{one}
		return nil
	}
	var many []rawBadge
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// titles returns the visible badge titles
func (l badgeList) titles() []string {
	var out []string
	for _, b := range l {
		if b.Show != nil && !bool(*b.Show) {
			continue
		}
		if t := strings.TrimSpace(string(b.Title)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
