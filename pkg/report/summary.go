package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"github.com/aquasecurity/advisory-scraper/pkg/set"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
)

const dateLayout = "2006-01-02"

// Summary prints vulnerability counts per severity and the advisories that
// produced no record.
func Summary(w io.Writer, selected []types.AdvisorySummary, records []types.VulnerabilityRecord) error {
	counts := lo.CountValuesBy(records, func(r types.VulnerabilityRecord) types.Severity {
		return r.Severity
	})

	var parts []string
	for i := len(types.SeverityNames) - 1; i >= 0; i-- {
		sev := types.Severity(i)
		parts = append(parts, fmt.Sprintf("%s: %d", types.ColorizeSeverity(sev), counts[sev]))
	}
	if _, err := fmt.Fprintf(w, "Advisories: %d, Vulnerabilities: %d (%s)\n",
		len(selected), len(records), strings.Join(parts, ", ")); err != nil {
		return err
	}

	withRecords := set.New(lo.Map(records, func(r types.VulnerabilityRecord, _ int) string {
		return r.AdvisoryID
	})...)
	empty := set.NewOrdered[string]()
	for _, adv := range selected {
		if !withRecords.Contains(adv.Number) {
			empty.Append(adv.Number)
		}
	}
	if empty.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Advisories without vulnerabilities: %s\n", strings.Join(empty.Values(), ", "))
	return err
}

// PresentIndex prints advisories as an aligned table.
func PresentIndex(w io.Writer, advisories []types.AdvisorySummary) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tRELEASE DATE\tNAME\tURL")
	for _, adv := range advisories {
		date := "-"
		if adv.ReleaseDate != nil {
			date = adv.ReleaseDate.Format(dateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", adv.Number, date, adv.Name, adv.URL)
	}
	return tw.Flush()
}
