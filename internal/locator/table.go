// CLAUDE:SUMMARY Scans a results-table HTML fragment for the first row matching an identifier and extracts its link.
package locator

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Match is the result of scanning a results table for one identifier.
type Match struct {
	Found    bool
	Row      int    // 1-based index of the matching body row
	Href     string // resolved link; empty when no strategy matched
	Strategy string // name of the strategy that produced Href
	Rows     int    // body rows seen
}

// ScanTable looks for the first body row whose first data cell, trimmed,
// equals id. On a match the link is taken from the row's first header
// cell using strategies in order. Relative hrefs are resolved against base.
func ScanTable(fragment, id string, base *url.URL, strategies []LinkStrategy, logger *slog.Logger) (Match, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return Match{}, fmt.Errorf("locator: parse table: %w", err)
	}

	var m Match
	rows := doc.Find("tbody tr")
	m.Rows = rows.Length()

	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		data := firstCell(row, atom.Td)
		if data == nil {
			logger.Debug("locator: row without data cell", "row", i+1)
			return true
		}
		text := strings.TrimSpace(data.Text())
		logger.Debug("locator: compare row", "row", i+1, "text", text, "id", id)
		if text != id {
			return true
		}

		m.Found = true
		m.Row = i + 1
		if head := firstCell(row, atom.Th); head != nil {
			m.Href, m.Strategy = extractLink(head, base, strategies)
		}
		return false
	})

	return m, nil
}

// firstCell returns the first direct child cell of row with the given tag.
func firstCell(row *goquery.Selection, tag atom.Atom) *goquery.Selection {
	cells := row.Children().FilterFunction(func(_ int, s *goquery.Selection) bool {
		n := s.Get(0)
		return n.Type == html.ElementNode && n.DataAtom == tag
	})
	if cells.Length() == 0 {
		return nil
	}
	return cells.First()
}

func extractLink(cell *goquery.Selection, base *url.URL, strategies []LinkStrategy) (string, string) {
	for _, st := range strategies {
		var href string
		cell.Find(st.Selector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			v, ok := a.Attr("href")
			if !ok || strings.TrimSpace(v) == "" {
				return true
			}
			href = resolve(base, strings.TrimSpace(v))
			return false
		})
		if href != "" {
			return href, st.Name
		}
	}
	return "", ""
}

func resolve(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
