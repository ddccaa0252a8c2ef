package index

import (
	"time"

	"github.com/samber/lo"

	"github.com/aquasecurity/advisory-scraper/pkg/set"
	"github.com/aquasecurity/advisory-scraper/pkg/types"
	"github.com/aquasecurity/advisory-scraper/pkg/utils"
)

// Filter selects advisories for extraction. The zero value keeps every dated advisory.
type Filter struct {
	// ReleaseDate keeps advisories released on that calendar day; nil keeps every date
	ReleaseDate *time.Time

	// IncludeUndated keeps advisories whose release date could not be parsed
	IncludeUndated bool

	// Advisories restricts the selection to these advisory numbers when non-empty
	Advisories set.Set[string]
}

func NewFilter(releaseDate *time.Time, includeUndated bool, advisories []string) Filter {
	return Filter{
		ReleaseDate:    releaseDate,
		IncludeUndated: includeUndated,
		Advisories:     set.New(advisories...),
	}
}

// Select returns the advisories matching f, preserving index order.
func Select(advisories []types.AdvisorySummary, f Filter) []types.AdvisorySummary {
	return lo.Filter(advisories, func(adv types.AdvisorySummary, _ int) bool {
		return f.match(adv)
	})
}

func (f Filter) match(adv types.AdvisorySummary) bool {
	if f.Advisories.Len() > 0 && !f.Advisories.Contains(adv.Number) {
		return false
	}
	if adv.ReleaseDate == nil {
		return f.IncludeUndated
	}
	if f.ReleaseDate == nil {
		return true
	}
	return utils.SameDay(*adv.ReleaseDate, *f.ReleaseDate)
}
