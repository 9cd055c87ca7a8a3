package memory

import (
	"cmp"
	"slices"
	"strings"

	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
)

// searchRecords filters with match, sorts with the comparator picked by
// OrderBy (falling back to def), and cuts the requested page.
func searchRecords[R any, T any](
	records []R,
	in seedwork.SearchInput,
	match func(r R, term string) bool,
	orderings map[string]func(a, b R) int,
	def string,
	build func(r R) T,
) seedwork.SearchOutput[T] {
	in = in.Normalize()
	term := strings.ToLower(in.Search)

	filtered := make([]R, 0, len(records))
	for _, r := range records {
		if term == "" || match(r, term) {
			filtered = append(filtered, r)
		}
	}

	compare, ok := orderings[strings.ToLower(in.OrderBy)]
	if !ok {
		compare = orderings[def]
	}
	slices.SortStableFunc(filtered, func(a, b R) int {
		if in.Order == seedwork.OrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})

	out := seedwork.SearchOutput[T]{CurrentPage: in.Page, PerPage: in.PerPage, Total: len(filtered), Items: []T{}}
	start := min(in.Offset(), len(filtered))
	end := min(start+in.PerPage, len(filtered))
	for _, r := range filtered[start:end] {
		out.Items = append(out.Items, build(r))
	}
	return out
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

func compareFold(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}
