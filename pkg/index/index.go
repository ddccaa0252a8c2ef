package index

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/samber/oops"

	"github.com/aquasecurity/advisory-scraper/pkg/config"
	"github.com/aquasecurity/advisory-scraper/pkg/fetch"
	"github.com/aquasecurity/advisory-scraper/pkg/log"
	"github.com/aquasecurity/advisory-scraper/pkg/page"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
	"github.com/aquasecurity/advisory-scraper/pkg/utils"
)

const rowSelector = "tr.data"

// Parser turns the advisory listing page into AdvisorySummary rows.
type Parser struct {
	fetcher fetch.Fetcher

	indexURL     string
	baseURL      string
	numberColumn int
	dateColumn   int

	logger *log.Logger
}

func NewParser(fetcher fetch.Fetcher, cfg config.Config) Parser {
	return Parser{
		fetcher:      fetcher,
		indexURL:     cfg.IndexURL(),
		baseURL:      cfg.BaseURL,
		numberColumn: cfg.AdvisoryNumberColumn,
		dateColumn:   cfg.ReleaseDateColumn,
		logger:       log.WithPrefix("index"),
	}
}

// Parse fetches the listing page and returns one summary per data row.
// A release date that does not parse leaves ReleaseDate nil; it never fails the batch.
func (p Parser) Parse(ctx context.Context) ([]types.AdvisorySummary, error) {
	eb := oops.In("index").With("url", p.indexURL)

	b, err := p.fetcher.Fetch(ctx, p.indexURL)
	if err != nil {
		return nil, eb.Wrapf(err, "index fetch error")
	}

	doc, err := page.Parse(b)
	if err != nil {
		return nil, eb.Wrapf(err, "index parse error")
	}

	advisories, err := p.parseRows(doc)
	if err != nil {
		return nil, eb.Wrap(err)
	}
	p.logger.Info("Parsed advisory index", log.Int("advisories", len(advisories)))
	return advisories, nil
}

func (p Parser) parseRows(doc *goquery.Document) ([]types.AdvisorySummary, error) {
	var (
		advisories []types.AdvisorySummary
		err        error
	)
	doc.Find(rowSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		link, ok := page.FirstLink(row)
		if !ok {
			p.logger.Warn("Skipping index row without a link", log.Int("row", i))
			return true
		}

		cells := row.Find("td")
		if cells.Length() <= max(p.numberColumn, p.dateColumn) {
			p.logger.Warn("Skipping index row with too few cells",
				log.Int("row", i), log.Int("cells", cells.Length()))
			return true
		}

		var advisoryURL string
		advisoryURL, err = utils.ResolveURL(p.baseURL, link.Href)
		if err != nil {
			err = oops.With("row", i).Wrapf(err, "advisory link error")
			return false
		}

		number := strings.TrimSpace(cells.Eq(p.numberColumn).Text())
		dateText := strings.TrimSpace(cells.Eq(p.dateColumn).Text())

		advisories = append(advisories, types.AdvisorySummary{
			Name:        link.Text,
			Number:      number,
			URL:         advisoryURL,
			ReleaseDate: p.parseDate(number, dateText),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return advisories, nil
}

// parseDate is lenient: vendor tables contain typos such as misspelled months.
func (p Parser) parseDate(number, text string) *time.Time {
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		p.logger.Warn("Unparseable release date",
			log.AdvisoryID(number), log.String("value", text), log.Err(err))
		return nil
	}
	d := utils.Date(t)
	return &d
}
