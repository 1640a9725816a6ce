package matches

import "sort"

// SortSummary returns a new slice ordered by total score descending, then by
// start time descending. The input is not modified; fully tied matches keep
// their input order.
func SortSummary(in []Match) []Match {
	out := make([]Match, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return ranksBefore(out[i], out[j])
	})
	return out
}

func ranksBefore(a, b Match) bool {
	if at, bt := a.TotalScore(), b.TotalScore(); at != bt {
		return at > bt
	}
	return a.StartTime.After(b.StartTime)
}
