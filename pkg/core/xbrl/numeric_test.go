package xbrl

import (
	"fmt"
	"testing"
)

// factDoc builds a minimal document holding one fact element with the given
// attributes and text, and returns the parsed selection for it.
func parseFact(t *testing.T, attrs map[string]string, text string) *Document {
	t.Helper()
	attrStr := ""
	for k, v := range attrs {
		attrStr += fmt.Sprintf(" %s=%q", k, v)
	}
	doc, err := ParseDocument(fmt.Sprintf("<us-gaap:Assets%s>%s</us-gaap:Assets>", attrStr, text))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	return doc
}

func parseValue(t *testing.T, attrs map[string]string, text string) (float64, bool) {
	t.Helper()
	doc := parseFact(t, attrs, text)
	facts := doc.FactElements("us-gaap:Assets")
	if len(facts) != 1 {
		t.Fatalf("expected 1 fact element, got %d", len(facts))
	}
	return ParseFactValue(facts[0])
}

func TestParseFactValue(t *testing.T) {
	cases := []struct {
		name  string
		attrs map[string]string
		text  string
		want  float64
		ok    bool
	}{
		{"plain", nil, "1234", 1234, true},
		{"comma separated", nil, "1,234", 1234, true},
		{"parenthetical negative", nil, "(1,234)", -1234, true},
		{"internal whitespace", nil, " 1 234 ", 1234, true},
		{"dollar sign", nil, "$500", 500, true},
		{"decimal", nil, "12.5", 12.5, true},
		{"non numeric", nil, "abc", 0, false},
		{"empty", nil, "", 0, false},
		{"scale six", map[string]string{"scale": "6"}, "5", 5000000, true},
		{"scale three", map[string]string{"scale": "3"}, "2.5", 2500, true},
		{"scale zero ignored", map[string]string{"scale": "0"}, "7", 7, true},
		{"decimals millions", map[string]string{"decimals": "-6"}, "5", 5000000, true},
		{"decimals thousands", map[string]string{"decimals": "-3"}, "5", 5000, true},
		{"scale beats decimals", map[string]string{"scale": "3", "decimals": "-6"}, "1", 1000, true},
		{"sign dash", map[string]string{"sign": "-"}, "100", -100, true},
		{"sign neg", map[string]string{"sign": "neg"}, "100", -100, true},
		{"sign negative forces", map[string]string{"sign": "negative"}, "(100)", -100, true},
		{"sign with scale", map[string]string{"sign": "-", "scale": "3"}, "2", -2000, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseValue(t, tc.attrs, tc.text)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("value = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestParseFactValueNeverPanics(t *testing.T) {
	for _, text := range []string{"()", "(abc)", "1.2.3", "--5", "(", "n/a"} {
		if _, ok := parseValue(t, nil, text); ok {
			t.Errorf("expected %q to be rejected", text)
		}
	}
}
