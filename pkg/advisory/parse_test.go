package advisory_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/advisory-scraper/pkg/advisory"
	"github.com/aquasecurity/advisory-scraper/pkg/page"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
)

const (
	mitre = "https://cve.mitre.org/cgi-bin/cvename.cgi?name="
)

func loadParagraphs(t *testing.T, name string) page.Paragraphs {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	doc, err := page.Parse(b)
	require.NoError(t, err)
	return page.ParagraphsOf(doc)
}

func TestParseAdvisory(t *testing.T) {
	adv := types.AdvisorySummary{
		Name:   "Intel® CSME Advisory",
		Number: "INTEL-SA-00241",
		URL:    "https://www.intel.com/content/www/us/en/security-center/advisory/intel-sa-00241.html",
	}

	tests := []struct {
		name    string
		fixture string
		want    []types.VulnerabilityRecord
		wantErr string
	}{
		{
			name:    "single vulnerability",
			fixture: "single.html",
			want: []types.VulnerabilityRecord{
				{
					CVEID:         "CVE-2019-1234",
					CVSSVector:    "AV:N/AC:L",
					CVSSBaseScore: "7.5",
					Description:   "Buffer overflow.",
					AdvisoryURL:   adv.URL,
					AdvisoryID:    adv.Number,
					CVEURL:        mitre + "CVE-2019-1234",
					Severity:      types.SeverityHigh,
				},
			},
		},
		{
			name:    "extra paragraph after the description",
			fixture: "extra-paragraph.html",
			want: []types.VulnerabilityRecord{
				{
					CVEID:         "CVE-2019-11135",
					CVSSVector:    "CVSS:3.0/AV:L/AC:L/PR:L/UI:N/S:C/C:H/I:N/A:N",
					CVSSBaseScore: "6.5",
					Description:   "TSX Asynchronous Abort condition on some CPUs utilizing speculative execution may allow an authenticated user to potentially enable information disclosure via a side channel with local access.",
					AdvisoryURL:   adv.URL,
					AdvisoryID:    adv.Number,
					CVEURL:        mitre + "CVE-2019-11135",
					Severity:      types.SeverityMedium,
				},
			},
		},
		{
			name:    "multiple vulnerabilities",
			fixture: "multiple.html",
			want: []types.VulnerabilityRecord{
				{
					CVEID:         "CVE-2019-0169",
					CVSSVector:    "CVSS:3.0/AV:A/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H",
					CVSSBaseScore: "9.6",
					Description:   "Heap overflow in subsystem in Intel(R) CSME may allow an unauthenticated user to potentially enable escalation of privileges, information disclosure or denial of service via adjacent access.",
					AdvisoryURL:   adv.URL,
					AdvisoryID:    adv.Number,
					CVEURL:        mitre + "CVE-2019-0169",
					Severity:      types.SeverityCritical,
				},
				{
					CVEID:         "CVE-2019-11105",
					CVSSVector:    "CVSS:3.0/AV:L/AC:L/PR:H/UI:N/S:U/C:H/I:N/A:N",
					CVSSBaseScore: "4.4",
					Description:   "Logic issue in subsystem in Intel(R) CSME may allow a privileged user to potentially enable information disclosure via local access.",
					AdvisoryURL:   adv.URL,
					AdvisoryID:    adv.Number,
					CVEURL:        mitre + "CVE-2019-11105",
					Severity:      types.SeverityMedium,
				},
				{
					CVEID:         "CVE-2019-11106",
					CVSSVector:    "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
					CVSSBaseScore: "9.8",
					Description:   "Insufficient input validation in Intel(R) CSME may allow an unauthenticated user to potentially enable escalation of privilege via network access.",
					AdvisoryURL:   adv.URL,
					AdvisoryID:    adv.Number,
					CVEURL:        mitre + "CVE-2019-11106",
					Severity:      types.SeverityCritical,
				},
				{
					CVEID:         "CVE-2019-11107",
					CVSSVector:    "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
					CVSSBaseScore: "9.8",
					Description:   "Insufficient input validation in Intel(R) CSME may allow an unauthenticated user to potentially enable escalation of privilege via network access.",
					AdvisoryURL:   adv.URL,
					AdvisoryID:    adv.Number,
					CVEURL:        mitre + "CVE-2019-11107",
					Severity:      types.SeverityCritical,
				},
			},
		},
		{
			name:    "no vulnerabilities",
			fixture: "none.html",
		},
		{
			name:    "score missing before the next vulnerability",
			fixture: "malformed.html",
			wantErr: "advisory page does not match expected structure: " + adv.URL + " (CVE-2019-0001, paragraph 0): no CVSS score and vector",
		},
		{
			name:    "page ends before the vector",
			fixture: "truncated.html",
			wantErr: "(CVE-2019-0003, paragraph 0): no CVSS score and vector",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advisory.ParseAdvisory(loadParagraphs(t, tt.fixture), adv)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.ErrorIs(t, err, advisory.ErrUnexpectedStructure)

				var serr *advisory.StructureError
				require.True(t, errors.As(err, &serr))
				assert.Equal(t, adv.URL, serr.AdvisoryURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAdvisory_AnchorWithoutLink(t *testing.T) {
	doc, err := page.Parse([]byte(`<p>CVEID: CVE-2019-0005</p><p>Description: x</p><p>CVSS: 1.0 Low</p><p><a>AV:L</a></p>`))
	require.NoError(t, err)

	_, err = advisory.ParseAdvisory(page.ParagraphsOf(doc), types.AdvisorySummary{URL: "https://www.intel.com/a.html"})
	require.Error(t, err)
	assert.ErrorIs(t, err, advisory.ErrUnexpectedStructure)
	assert.Contains(t, err.Error(), "(unknown CVE, paragraph 0): no CVE link")
}
