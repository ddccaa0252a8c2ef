package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var (
	SeverityNames = []string{
		"UNKNOWN",
		"LOW",
		"MEDIUM",
		"HIGH",
		"CRITICAL",
	}
	SeverityColor = []func(a ...interface{}) string{
		color.New(color.FgCyan).SprintFunc(),
		color.New(color.FgBlue).SprintFunc(),
		color.New(color.FgYellow).SprintFunc(),
		color.New(color.FgHiRed).SprintFunc(),
		color.New(color.FgRed).SprintFunc(),
	}
)

// NewSeverity parses a categorical CVSS rating such as "High" or "CRITICAL".
func NewSeverity(severity string) (Severity, error) {
	s := strings.ToUpper(strings.TrimSpace(severity))
	for i, name := range SeverityNames {
		if s == name {
			return Severity(i), nil
		}
	}
	return SeverityUnknown, fmt.Errorf("unknown severity: %s", severity)
}

func ColorizeSeverity(severity Severity) string {
	if int(severity) < 0 || int(severity) >= len(SeverityNames) {
		severity = SeverityUnknown
	}
	return SeverityColor[severity](severity.String())
}

func (s Severity) String() string {
	if int(s) < 0 || int(s) >= len(SeverityNames) {
		return SeverityNames[SeverityUnknown]
	}
	return SeverityNames[s]
}

// AdvisorySummary is one row of the vendor's advisory index.
type AdvisorySummary struct {
	Name   string
	Number string
	URL    string

	// ReleaseDate is nil when the index cell could not be parsed as a date
	ReleaseDate *time.Time
}

// VulnerabilityRecord is a single CVE entry extracted from an advisory page.
type VulnerabilityRecord struct {
	CVEID         string
	CVSSVector    string
	CVSSBaseScore string
	Description   string
	AdvisoryURL   string
	AdvisoryID    string
	CVEURL        string

	// Severity is the categorical rating printed next to the base score.
	// It is not part of the CSV output.
	Severity Severity
}
