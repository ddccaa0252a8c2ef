package report

import (
	"encoding/csv"
	"io"
	"os"
	"slices"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/advisory-scraper/pkg/types"
)

// Header is the exact column order of the output file.
var Header = []string{
	"CVE ID",
	"CVSS Vector",
	"CVSS Base Score",
	"Description",
	"Advisory URL",
	"Advisory ID",
	"CVE URL",
}

type Presenter struct {
	records []types.VulnerabilityRecord
}

func NewPresenter(records []types.VulnerabilityRecord) *Presenter {
	return &Presenter{
		records: records,
	}
}

func (p *Presenter) Present(output io.Writer) error {
	writer := csv.NewWriter(output)

	if err := writer.Write(Header); err != nil {
		return xerrors.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(lo.Map(p.records, func(r types.VulnerabilityRecord, _ int) []string {
		return columns(r)
	})); err != nil {
		return xerrors.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteFile replaces path with the CSV rendering of the records.
func (p *Presenter) WriteFile(path string) error {
	eb := oops.In("report").With("file_path", path)

	f, err := os.Create(path)
	if err != nil {
		return eb.Wrapf(err, "file create error")
	}
	if err = p.Present(f); err != nil {
		_ = f.Close()
		return eb.Wrapf(err, "csv write error")
	}
	if err = f.Close(); err != nil {
		return eb.Wrapf(err, "file close error")
	}
	return nil
}

func columns(r types.VulnerabilityRecord) []string {
	return []string{
		r.CVEID,
		r.CVSSVector,
		r.CVSSBaseScore,
		r.Description,
		r.AdvisoryURL,
		r.AdvisoryID,
		r.CVEURL,
	}
}

// Read parses a file produced by Present. Severity is not part of the format
// and is left unknown.
func Read(r io.Reader) ([]types.VulnerabilityRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, xerrors.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, xerrors.New("empty CSV: missing header")
	}
	if !slices.Equal(rows[0], Header) {
		return nil, xerrors.Errorf("unexpected CSV header: %q", rows[0])
	}

	var records []types.VulnerabilityRecord
	for _, row := range rows[1:] {
		records = append(records, types.VulnerabilityRecord{
			CVEID:         row[0],
			CVSSVector:    row[1],
			CVSSBaseScore: row[2],
			Description:   row[3],
			AdvisoryURL:   row[4],
			AdvisoryID:    row[5],
			CVEURL:        row[6],
		})
	}
	return records, nil
}
