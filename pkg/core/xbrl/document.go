// Package xbrl implements the fact-extraction and disambiguation engine for
// SEC iXBRL filings: context resolution, numeric normalization, consolidation
// classification, metric mapping with rollups, and segmentation aggregation.
//
// The engine is pure. It holds no global state, performs no I/O, and each
// extraction call is a function of (document, configuration) only. Filing
// retrieval, caching and persistence live in sibling packages.
//
// This package uses github.com/PuerkitoBio/goquery for XML/HTML traversal.
package xbrl

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is an immutable parsed view of one SEC iXBRL filing. It is the
// source of all facts and contexts for one filing period (a 10-K typically
// carries 1-3 fiscal years of comparative data).
type Document struct {
	doc *goquery.Document
}

// ParseDocument parses raw filing XML/iXBRL text into a Document.
//
// The underlying HTML tokenizer lowercases element and attribute names
// (us-gaap:Assets becomes us-gaap:assets, contextRef becomes contextref).
// All lookups in this package are therefore case-insensitive; attribute
// values and text content keep their original case.
func ParseDocument(xmlText string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(xmlText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse filing document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// FactElements returns every element whose tag name equals the given source
// tag, e.g. "us-gaap:Revenues". A fact element carries the raw value as text
// plus contextRef/scale/decimals/sign attributes.
func (d *Document) FactElements(tag string) []*goquery.Selection {
	var out []*goquery.Selection
	d.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if strings.EqualFold(goquery.NodeName(s), tag) {
			out = append(out, s)
		}
	})
	return out
}

// contextByID resolves a context element by its id attribute. The primary
// lookup requires the element's tag name to contain "context"; if nothing
// matches, a fallback scan accepts any element whose id matches and whose
// tag name contains "context" in any namespace spelling. Some filers emit
// xbrli:context, others bare context, so both passes match on substring.
func (d *Document) contextByID(id string) *goquery.Selection {
	var found *goquery.Selection
	d.doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attr, ok := s.Attr("id")
		if !ok || attr != id {
			return true
		}
		if strings.Contains(strings.ToLower(goquery.NodeName(s)), "context") {
			found = s
			return false
		}
		return true
	})
	return found
}

// childByName returns the first descendant of s whose tag name contains the
// given lowercase fragment.
func childByName(s *goquery.Selection, fragment string) *goquery.Selection {
	var found *goquery.Selection
	s.Find("*").EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(goquery.NodeName(c)), fragment) {
			found = c
			return false
		}
		return true
	})
	return found
}

// directChildByName is like childByName but only inspects immediate children.
func directChildByName(s *goquery.Selection, fragment string) *goquery.Selection {
	var found *goquery.Selection
	s.Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(goquery.NodeName(c)), fragment) {
			found = c
			return false
		}
		return true
	})
	return found
}

// attrAnyCase returns the value of the named attribute, tolerating both the
// original camelCase spelling and the lowercased form the tokenizer produces.
func attrAnyCase(s *goquery.Selection, name string) (string, bool) {
	if v, ok := s.Attr(name); ok {
		return v, true
	}
	return s.Attr(strings.ToLower(name))
}
