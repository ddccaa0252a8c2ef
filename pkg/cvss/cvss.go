package cvss

import (
	"math"
	"strconv"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	"golang.org/x/xerrors"
)

type Version string

const (
	V2  Version = "2.0"
	V30 Version = "3.0"
	V31 Version = "3.1"
)

// BaseScore computes the base score encoded by a CVSS v2, v3.0 or v3.1 vector.
func BaseScore(vector string) (Version, float64, error) {
	vector = strings.TrimSuffix(strings.TrimSpace(vector), "/")
	switch {
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		c, err := gocvss31.ParseVector(vector)
		if err != nil {
			return V31, 0, xerrors.Errorf("failed to parse CVSS v3.1 vector: %w", err)
		}
		return V31, c.BaseScore(), nil
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		c, err := gocvss30.ParseVector(vector)
		if err != nil {
			return V30, 0, xerrors.Errorf("failed to parse CVSS v3.0 vector: %w", err)
		}
		return V30, c.BaseScore(), nil
	default:
		c, err := gocvss20.ParseVector(strings.Trim(vector, "()"))
		if err != nil {
			return V2, 0, xerrors.Errorf("failed to parse CVSS v2 vector: %w", err)
		}
		return V2, c.BaseScore(), nil
	}
}

// Mismatch describes a declared score that disagrees with its vector.
type Mismatch struct {
	Version  Version
	Declared float64
	Computed float64
}

// Verify compares the score printed on a page against the score computed from
// its vector. It returns nil when both agree to one decimal place.
func Verify(vector, score string) (*Mismatch, error) {
	declared, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	if err != nil {
		return nil, xerrors.Errorf("invalid base score %q: %w", score, err)
	}

	version, computed, err := BaseScore(vector)
	if err != nil {
		return nil, err
	}

	if math.Abs(declared-computed) < 0.05 {
		return nil, nil
	}
	return &Mismatch{
		Version:  version,
		Declared: declared,
		Computed: computed,
	}, nil
}
