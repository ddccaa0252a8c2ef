package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Paragraph is one <p> block of a page.
type Paragraph struct {
	sel *goquery.Selection
}

func (p Paragraph) Text() string {
	return p.sel.Text()
}

func (p Paragraph) Links() []Link {
	return Links(p.sel)
}

func (p Paragraph) FirstLink() (Link, bool) {
	return FirstLink(p.sel)
}

// Paragraphs is the ordered sequence of <p> blocks of a document.
type Paragraphs []Paragraph

func ParagraphsOf(doc *goquery.Document) Paragraphs {
	var ps Paragraphs
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		ps = append(ps, Paragraph{sel: s})
	})
	return ps
}

// Containing returns the indices of paragraphs whose text contains marker.
func (ps Paragraphs) Containing(marker string) []int {
	var indices []int
	for i, p := range ps {
		if strings.Contains(p.Text(), marker) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Matcher inspects the paragraph at index i (and may look ahead) and
// reports the extracted value when the paragraph matches.
type Matcher[T any] func(ps Paragraphs, i int) (T, bool)

// Result is the outcome of a bounded Scan.
type Result[T any] struct {
	Value T
	// Index is the paragraph the matcher accepted, valid only when Found
	Index int
	Found bool
}

// Scan walks paragraphs [from, to) and stops at the first match.
// The bound is clamped to the sequence length, so Scan never overruns.
func Scan[T any](ps Paragraphs, from, to int, match Matcher[T]) Result[T] {
	if to > len(ps) {
		to = len(ps)
	}
	if from < 0 {
		from = 0
	}
	for i := from; i < to; i++ {
		if v, ok := match(ps, i); ok {
			return Result[T]{Value: v, Index: i, Found: true}
		}
	}
	return Result[T]{}
}
