package utils

import (
	"sort"
	"strings"
	"time"

	ierr "maidhub/internal/errors"
	"maidhub/internal/models"
)

// NormalizeWorkDates trims, validates and de-duplicates YYYY-MM-DD dates and
// returns them sorted ascending.
func NormalizeWorkDates(inputs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(inputs))
	dates := make([]string, 0, len(inputs))

	for _, input := range inputs {
		raw := strings.TrimSpace(input)
		day, err := time.Parse(models.WorkDateLayout, raw)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Invalid work date %q, expected YYYY-MM-DD", raw).
				Mark(ierr.ErrValidation)
		}

		normalized := day.Format(models.WorkDateLayout)
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		dates = append(dates, normalized)
	}

	sort.Strings(dates)
	return dates, nil
}

// StartOfDayUTC truncates t to midnight of its UTC calendar day.
func StartOfDayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
