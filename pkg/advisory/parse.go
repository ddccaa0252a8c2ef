package advisory

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/xerrors"

	"github.com/aquasecurity/advisory-scraper/pkg/page"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
)

const (
	anchorMarker     = "CVEID"
	descriptionLabel = "Description:"
)

var (
	ErrUnexpectedStructure = xerrors.New("advisory page does not match expected structure")

	scorePattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// StructureError points at the anchor paragraph whose fields could not be found.
type StructureError struct {
	AdvisoryURL string
	CVEID       string
	Index       int
	Reason      string
}

func (e *StructureError) Error() string {
	cve := e.CVEID
	if cve == "" {
		cve = "unknown CVE"
	}
	return fmt.Sprintf("%s: %s (%s, paragraph %d): %s", ErrUnexpectedStructure, e.AdvisoryURL, cve, e.Index, e.Reason)
}

func (e *StructureError) Is(target error) bool {
	return target == ErrUnexpectedStructure
}

type cvssFields struct {
	score    string
	severity types.Severity
	vector   string
}

// ParseAdvisory extracts one record per CVEID marker found in ps.
//
// Each vulnerability is laid out as
//
//	CVEID: <a href=cve-url>CVE-ID</a>
//	Description: ...
//	(optional extra paragraphs)
//	CVSS Base Score: 7.5 High
//	CVSS Vector: <a>CVSS:3.0/...</a>
//
// The score is searched for between the description and the next CVEID
// paragraph, so a missing score never borrows the next vulnerability's fields.
func ParseAdvisory(ps page.Paragraphs, adv types.AdvisorySummary) ([]types.VulnerabilityRecord, error) {
	anchors := ps.Containing(anchorMarker)

	var records []types.VulnerabilityRecord
	for n, i := range anchors {
		bound := len(ps)
		if n+1 < len(anchors) {
			bound = anchors[n+1]
		}

		links := ps[i].Links()
		if len(links) == 0 {
			return nil, &StructureError{AdvisoryURL: adv.URL, Index: i, Reason: "no CVE link"}
		}
		// every marker in the paragraph pairs with the link of the same ordinal
		occurrences := min(strings.Count(ps[i].Text(), anchorMarker), len(links))

		for _, cve := range links[:occurrences] {
			if i+1 >= bound {
				return nil, &StructureError{AdvisoryURL: adv.URL, CVEID: cve.Text, Index: i, Reason: "no description"}
			}
			description := strings.TrimSpace(ps[i+1].Text())
			description = strings.TrimSpace(strings.TrimPrefix(description, descriptionLabel))

			res := page.Scan(ps, i+2, bound, matchCVSS(bound))
			if !res.Found {
				return nil, &StructureError{AdvisoryURL: adv.URL, CVEID: cve.Text, Index: i, Reason: "no CVSS score and vector"}
			}

			records = append(records, types.VulnerabilityRecord{
				CVEID:         cve.Text,
				CVSSVector:    res.Value.vector,
				CVSSBaseScore: res.Value.score,
				Description:   description,
				AdvisoryURL:   adv.URL,
				AdvisoryID:    adv.Number,
				CVEURL:        cve.Href,
				Severity:      res.Value.severity,
			})
		}
	}
	return records, nil
}

// matchCVSS accepts "<label>: <score> <severity>" followed by a paragraph
// whose first link is the vector. Paragraphs at or after bound are never read.
func matchCVSS(bound int) page.Matcher[cvssFields] {
	return func(ps page.Paragraphs, i int) (cvssFields, bool) {
		segments := strings.Split(ps[i].Text(), ":")
		if len(segments) < 2 {
			return cvssFields{}, false
		}
		tokens := strings.Fields(segments[1])
		if len(tokens) < 2 || !scorePattern.MatchString(tokens[0]) {
			return cvssFields{}, false
		}

		if i+1 >= bound {
			return cvssFields{}, false
		}
		vector, ok := ps[i+1].FirstLink()
		if !ok {
			return cvssFields{}, false
		}

		// unknown ratings map to UNKNOWN
		severity, _ := types.NewSeverity(tokens[1])
		return cvssFields{
			score:    tokens[0],
			severity: severity,
			vector:   vector.Text,
		}, true
	}
}
