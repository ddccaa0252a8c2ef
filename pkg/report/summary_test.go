package report_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/advisory-scraper/pkg/report"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
	"github.com/aquasecurity/advisory-scraper/pkg/utils"
)

func TestSummary(t *testing.T) {
	color.NoColor = true

	selected := []types.AdvisorySummary{
		{Number: "INTEL-SA-00270"},
		{Number: "INTEL-SA-00271"},
		{Number: "INTEL-SA-00241"},
		{Number: "INTEL-SA-00240"},
	}
	recs := []types.VulnerabilityRecord{
		{CVEID: "CVE-2019-11135", AdvisoryID: "INTEL-SA-00270", Severity: types.SeverityMedium},
		{CVEID: "CVE-2019-0169", AdvisoryID: "INTEL-SA-00241", Severity: types.SeverityCritical},
		{CVEID: "CVE-2019-11105", AdvisoryID: "INTEL-SA-00241", Severity: types.SeverityMedium},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Summary(&buf, selected, recs))
	assert.Equal(t, "Advisories: 4, Vulnerabilities: 3 (CRITICAL: 1, HIGH: 0, MEDIUM: 2, LOW: 0, UNKNOWN: 0)\n"+
		"Advisories without vulnerabilities: INTEL-SA-00240, INTEL-SA-00271\n", buf.String())
}

func TestPresentIndex(t *testing.T) {
	advisories := []types.AdvisorySummary{
		{
			Name:        "TAA Advisory",
			Number:      "INTEL-SA-00270",
			URL:         "https://www.intel.com/sa-00270.html",
			ReleaseDate: utils.MustTimeParse("2019-11-12T00:00:00Z"),
		},
		{
			Name:   "Voltage Advisory",
			Number: "INTEL-SA-00271",
			URL:    "https://www.intel.com/sa-00271.html",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.PresentIndex(&buf, advisories))
	assert.Equal(t, "NUMBER          RELEASE DATE  NAME              URL\n"+
		"INTEL-SA-00270  2019-11-12    TAA Advisory      https://www.intel.com/sa-00270.html\n"+
		"INTEL-SA-00271  -             Voltage Advisory  https://www.intel.com/sa-00271.html\n", buf.String())
}
