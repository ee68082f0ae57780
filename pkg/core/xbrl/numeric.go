package xbrl

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseFactValue converts a raw fact element's text into a signed, scaled
// float. It handles, in order:
//
//   - comma/whitespace/currency-symbol stripping
//   - the parenthetical-negative convention: "(1,234)" means -1234
//   - an explicit nonzero scale attribute as a power-of-ten exponent
//   - otherwise a decimals attribute: -6 implies millions, -3 thousands
//   - an explicit sign attribute ("-", "neg", "negative") forcing negation
//     regardless of the textual sign
//
// Non-numeric text returns ok=false so callers skip the fact without
// aborting the rest of the extraction. It never panics.
func ParseFactValue(elem *goquery.Selection) (float64, bool) {
	text := normalizeFactText(elem.Text())
	if text == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "("), ")")
		negative = true
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		value = -value
	}

	value *= scaleMultiplier(elem)

	if sign, ok := attrAnyCase(elem, "sign"); ok {
		switch strings.ToLower(strings.TrimSpace(sign)) {
		case "-", "neg", "negative":
			value = -math.Abs(value)
		}
	}

	return value, true
}

// scaleMultiplier derives the power-of-ten multiplier from the scale
// attribute, falling back to decimals when scale is absent or zero.
func scaleMultiplier(elem *goquery.Selection) float64 {
	if scale, ok := attrAnyCase(elem, "scale"); ok {
		if exp, err := strconv.Atoi(strings.TrimSpace(scale)); err == nil && exp != 0 {
			return math.Pow10(exp)
		}
	}
	if decimals, ok := attrAnyCase(elem, "decimals"); ok {
		switch strings.TrimSpace(decimals) {
		case "-6":
			return 1e6
		case "-3":
			return 1e3
		}
	}
	return 1
}

func normalizeFactText(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == ',' || r == '$':
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ' ':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
