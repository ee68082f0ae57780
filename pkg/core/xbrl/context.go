package xbrl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// ResolveContext looks up a context by its reference ID and extracts the
// period string plus the dimensional (axis, member) pairs.
//
// Period rules, in order:
//   - an instant child yields "As of <date>"
//   - startDate/endDate children yield "<start> to <end>"
//   - otherwise, a 4-digit year embedded in the context ID synthesizes a
//     full calendar year ("<year>-01-01 to <year>-12-31") as a last resort
//
// Dimensions come from the segment element nested under entity, falling back
// to a segment at the context's direct child level for filers with a flatter
// XML shape. Every descendant whose tag name contains "explicitmember"
// contributes its dimension attribute paired with its text content.
//
// Malformed or missing contexts never produce an error; the zero value is
// returned and the caller skips that fact.
func ResolveContext(d *Document, contextID string) ResolvedContext {
	if contextID == "" {
		return ResolvedContext{}
	}

	ctx := d.contextByID(contextID)
	if ctx == nil {
		// Last resort: a year in the context ID itself.
		if m := yearPattern.FindString(contextID); m != "" {
			return ResolvedContext{
				ID:     contextID,
				Period: fmt.Sprintf("%s-01-01 to %s-12-31", m, m),
			}
		}
		return ResolvedContext{}
	}

	rc := ResolvedContext{ID: contextID}
	rc.Period = extractPeriod(ctx, contextID)
	rc.Dimensions = extractDimensions(ctx)
	return rc
}

func extractPeriod(ctx *goquery.Selection, contextID string) string {
	if instant := childByName(ctx, "instant"); instant != nil {
		return "As of " + strings.TrimSpace(instant.Text())
	}
	start := childByName(ctx, "startdate")
	end := childByName(ctx, "enddate")
	if start != nil && end != nil {
		return fmt.Sprintf("%s to %s", strings.TrimSpace(start.Text()), strings.TrimSpace(end.Text()))
	}
	if m := yearPattern.FindString(contextID); m != "" {
		return fmt.Sprintf("%s-01-01 to %s-12-31", m, m)
	}
	return ""
}

func extractDimensions(ctx *goquery.Selection) []DimensionPair {
	segment := findSegment(ctx)
	if segment == nil {
		return nil
	}
	var pairs []DimensionPair
	segment.Find("*").Each(func(_ int, s *goquery.Selection) {
		if !strings.Contains(strings.ToLower(goquery.NodeName(s)), "explicitmember") {
			return
		}
		axis, _ := s.Attr("dimension")
		member := strings.TrimSpace(s.Text())
		if axis != "" && member != "" {
			pairs = append(pairs, DimensionPair{Axis: axis, Member: member})
		}
	})
	return pairs
}

// findSegment prefers entity > segment; some filers place segment directly
// under the context element.
func findSegment(ctx *goquery.Selection) *goquery.Selection {
	if entity := directChildByName(ctx, "entity"); entity != nil {
		if seg := directChildByName(entity, "segment"); seg != nil {
			return seg
		}
	}
	return directChildByName(ctx, "segment")
}

// YearOfPeriod returns the first 4-digit year token in a period string.
func YearOfPeriod(period string) (int, bool) {
	m := yearPattern.FindString(period)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// PeriodDays returns the duration in days for a "<start> to <end>" period.
// Instant and synthesized periods without two parseable dates return 0.
func PeriodDays(period string) int {
	parts := strings.Split(period, " to ")
	if len(parts) != 2 {
		return 0
	}
	start, err1 := time.Parse("2006-01-02", strings.TrimSpace(parts[0]))
	end, err2 := time.Parse("2006-01-02", strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
