package advisory

import (
	"context"

	"github.com/samber/oops"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/advisory-scraper/pkg/config"
	"github.com/aquasecurity/advisory-scraper/pkg/cvss"
	"github.com/aquasecurity/advisory-scraper/pkg/fetch"
	"github.com/aquasecurity/advisory-scraper/pkg/log"
	"github.com/aquasecurity/advisory-scraper/pkg/page"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
	"github.com/aquasecurity/advisory-scraper/pkg/utils"
)

// Extractor fetches advisory detail pages and turns them into vulnerability records.
type Extractor struct {
	fetcher       fetch.Fetcher
	baseURL       string
	skipMalformed bool
	logger        *log.Logger
}

func NewExtractor(fetcher fetch.Fetcher, cfg config.Config) Extractor {
	return Extractor{
		fetcher:       fetcher,
		baseURL:       cfg.BaseURL,
		skipMalformed: cfg.SkipMalformed,
		logger:        log.WithPrefix("advisory"),
	}
}

// Extract processes the advisories one after another. Records are returned in
// advisory order, then in the order vulnerabilities appear on each page.
//
// Transport errors always abort. A page that does not match the expected
// structure aborts too, unless the extractor was configured to skip it.
func (e Extractor) Extract(ctx context.Context, selected []types.AdvisorySummary) ([]types.VulnerabilityRecord, error) {
	var records []types.VulnerabilityRecord
	for _, adv := range selected {
		recs, err := e.extractAdvisory(ctx, adv)
		if err != nil {
			if e.skipMalformed && xerrors.Is(err, ErrUnexpectedStructure) {
				e.logger.Warn("Skipping malformed advisory",
					log.AdvisoryID(adv.Number), log.URL(adv.URL), log.Err(err))
				continue
			}
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

func (e Extractor) extractAdvisory(ctx context.Context, adv types.AdvisorySummary) ([]types.VulnerabilityRecord, error) {
	eb := oops.In("advisory").With("advisory_id", adv.Number)

	advisoryURL, err := utils.ResolveURL(e.baseURL, adv.URL)
	if err != nil {
		return nil, eb.With("url", adv.URL).Wrapf(err, "advisory URL error")
	}
	eb = eb.With("url", advisoryURL)
	adv.URL = advisoryURL

	b, err := e.fetcher.Fetch(ctx, advisoryURL)
	if err != nil {
		return nil, eb.Wrapf(err, "advisory fetch error")
	}

	doc, err := page.Parse(b)
	if err != nil {
		return nil, eb.Wrapf(err, "advisory parse error")
	}

	records, err := ParseAdvisory(page.ParagraphsOf(doc), adv)
	if err != nil {
		return nil, eb.Wrap(err)
	}

	for _, r := range records {
		e.verifyScore(r)
	}
	e.logger.Info("Extracted advisory", log.AdvisoryID(adv.Number),
		log.URL(advisoryURL), log.Int("vulnerabilities", len(records)))
	return records, nil
}

// verifyScore only logs: the page is the source of truth for the CSV.
func (e Extractor) verifyScore(r types.VulnerabilityRecord) {
	mismatch, err := cvss.Verify(r.CVSSVector, r.CVSSBaseScore)
	switch {
	case err != nil:
		e.logger.Debug("Unable to verify CVSS score", log.String("cve_id", r.CVEID), log.Err(err))
	case mismatch != nil:
		e.logger.Warn("CVSS base score does not match its vector",
			log.String("cve_id", r.CVEID), log.AdvisoryID(r.AdvisoryID),
			log.String("version", string(mismatch.Version)),
			log.Any("declared", mismatch.Declared), log.Any("computed", mismatch.Computed))
	}
}
