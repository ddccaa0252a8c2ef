package page

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/xerrors"
)

// Parse builds a traversable document from raw HTML.
func Parse(b []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return nil, xerrors.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

type Link struct {
	Text string
	Href string
}

// Links returns every hyperlink below the selection, in document order.
func Links(s *goquery.Selection) []Link {
	var links []Link
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		links = append(links, linkOf(a))
	})
	return links
}

// FirstLink returns the first hyperlink below the selection.
func FirstLink(s *goquery.Selection) (Link, bool) {
	a := s.Find("a").First()
	if a.Length() == 0 {
		return Link{}, false
	}
	return linkOf(a), true
}

func linkOf(a *goquery.Selection) Link {
	href, _ := a.Attr("href")
	return Link{
		Text: strings.TrimSpace(a.Text()),
		Href: strings.TrimSpace(href),
	}
}
