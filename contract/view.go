/*
view.go - Derived projections of the contract list

PURPOSE:
  Builds what the dashboard shows from a store snapshot:
  - Table:          filtered then sorted listing
  - SemaphoreOrder: alert panel, nearest aviso date first
  - Summarize:      count, total monthly amount, contracts with a file

All functions are pure. They never modify their input slice and are
recomputed on every read; nothing here is cached across mutations.

SORTING:
  Date keys treat an absent date as the Unix epoch, so missing dates come
  first in ascending order. Numeric keys treat absent values as zero.
  Sorting is stable: ties keep their store order.
*/
package contract

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SORT KEYS
// =============================================================================

type SortKey string

const (
	SortByAvisoDate      SortKey = "avisoDate"
	SortByEndDate        SortKey = "endDate"
	SortByDurationMonths SortKey = "durationMonths"
	SortBySignatureDate  SortKey = "signatureDate"
	SortByMonthlyAmount  SortKey = "monthlyAmount"
)

// SortKeys lists the supported keys in display order.
var SortKeys = []SortKey{
	SortByAvisoDate,
	SortByEndDate,
	SortByDurationMonths,
	SortBySignatureDate,
	SortByMonthlyAmount,
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseSortKey validates a sort key. Blank means avisoDate.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortByAvisoDate, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// ParseDirection validates a direction. Blank means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// compareBy returns -1, 0 or 1 comparing a and b on key in ascending order.
func compareBy(key SortKey, a, b Contract) int {
	switch key {
	case SortByAvisoDate:
		return compareInt64(a.AvisoDate.SortKey(), b.AvisoDate.SortKey())
	case SortByEndDate:
		return compareInt64(a.EndDate.SortKey(), b.EndDate.SortKey())
	case SortBySignatureDate:
		return compareInt64(a.SignatureDate.SortKey(), b.SignatureDate.SortKey())
	case SortByDurationMonths:
		return compareInt64(int64(a.DurationMonths), int64(b.DurationMonths))
	case SortByMonthlyAmount:
		return a.MonthlyAmount.Cmp(b.MonthlyAmount)
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// =============================================================================
// PROJECTIONS
// =============================================================================

// Filter keeps contracts whose id, file name or monthly amount contains the
// query, case-insensitively. A blank query keeps everything.
func Filter(contracts []Contract, query string) []Contract {
	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		if q == "" || strings.Contains(searchText(c), q) {
			result = append(result, c)
		}
	}
	return result
}

func searchText(c Contract) string {
	return strings.ToLower(strings.Join([]string{c.ID, c.FileName(), c.MonthlyAmount.String()}, " "))
}

// Sort returns a stably sorted copy of contracts.
func Sort(contracts []Contract, key SortKey, dir Direction) []Contract {
	result := make([]Contract, len(contracts))
	copy(result, contracts)
	sort.SliceStable(result, func(i, j int) bool {
		cmp := compareBy(key, result[i], result[j])
		if dir == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
	return result
}

// Table is the listing pipeline: filter, then sort.
func Table(contracts []Contract, query string, key SortKey, dir Direction) []Contract {
	return Sort(Filter(contracts, query), key, dir)
}

// SemaphoreOrder orders contracts by days until their aviso date, nearest
// first. Unlike Classify it ignores the end-date fallback; contracts
// without an aviso date go last. Ties keep store order.
func SemaphoreOrder(contracts []Contract, now time.Time) []Contract {
	type ranked struct {
		c    Contract
		days int
	}
	items := make([]ranked, len(contracts))
	for i, c := range contracts {
		items[i] = ranked{c: c, days: DaysUntil(c.AvisoDate, now)}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].days < items[j].days })

	result := make([]Contract, len(items))
	for i, it := range items {
		result[i] = it.c
	}
	return result
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary holds the dashboard aggregates.
type Summary struct {
	Count        int             `json:"count"`
	TotalMonthly decimal.Decimal `json:"totalMonthly"`
	WithFile     int             `json:"withFile"`
}

// Summarize computes the dashboard aggregates.
func Summarize(contracts []Contract) Summary {
	s := Summary{Count: len(contracts), TotalMonthly: decimal.Zero}
	for _, c := range contracts {
		s.TotalMonthly = s.TotalMonthly.Add(c.MonthlyAmount)
		if c.HasFile() {
			s.WithFile++
		}
	}
	return s
}
