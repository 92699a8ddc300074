// README: Quote ranker assigns set-relative badges and applies the stable multi-key sort.
package pricing

import "sort"

// Rank badges and orders a complete quote set. The input slice is left as is.
// Preferred-provider quotes always come first; sortBy orders within each group.
func Rank(quotes []Quote, preferred Provider, sortBy SortKey) []Quote {
	out := make([]Quote, len(quotes))
	copy(out, quotes)
	if len(out) == 0 {
		return out
	}
	if preferred == "" {
		preferred = ProviderTeleport
	}

	minPrice, minETA := out[0].Price, out[0].ETAMinutes
	for _, q := range out[1:] {
		if q.Price < minPrice {
			minPrice = q.Price
		}
		if q.ETAMinutes < minETA {
			minETA = q.ETAMinutes
		}
	}
	for i := range out {
		var badges []Badge
		if out[i].Price == minPrice {
			badges = append(badges, BadgeCheapest)
		}
		if out[i].ETAMinutes == minETA {
			badges = append(badges, BadgeFastest)
		}
		out[i].Badges = badges
	}

	less := secondaryLess(sortBy)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Provider == preferred, out[j].Provider == preferred
		if pi != pj {
			return pi
		}
		return less(out[i], out[j])
	})
	return out
}

func secondaryLess(key SortKey) func(a, b Quote) bool {
	switch key {
	case SortByETA:
		return func(a, b Quote) bool { return a.ETAMinutes < b.ETAMinutes }
	case SortByEco:
		return func(a, b Quote) bool { return a.EcoScore > b.EcoScore }
	default:
		return func(a, b Quote) bool { return a.Price < b.Price }
	}
}

// IsSortKey reports whether k is one of the supported sort keys.
func IsSortKey(k SortKey) bool {
	switch k {
	case SortByPrice, SortByETA, SortByEco:
		return true
	}
	return false
}
