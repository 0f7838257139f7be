package bandplan

import "sort"

// binSet is an unordered set of bin indices. It only exists inside the
// placement loop; bin sets are exported as ascending slices at the output
// boundary so the persisted format stays stable.
type binSet map[int]struct{}

func newBinSet(indices ...int) binSet {
	s := make(binSet, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

// binRun returns the set of width contiguous indices starting at start.
func binRun(start, width int) binSet {
	s := make(binSet, width)
	for i := 0; i < width; i++ {
		s[start+i] = struct{}{}
	}
	return s
}

func (s binSet) add(i int) {
	s[i] = struct{}{}
}

// intersects reports whether s and other share at least one index.
func (s binSet) intersects(other binSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for i := range small {
		if _, ok := large[i]; ok {
			return true
		}
	}
	return false
}

// intersect keeps only the indices of s that are also in other.
func (s binSet) intersect(other binSet) {
	for i := range s {
		if _, ok := other[i]; !ok {
			delete(s, i)
		}
	}
}

// union returns a new set with the indices of both s and other.
func (s binSet) union(other binSet) binSet {
	u := make(binSet, len(s)+len(other))
	for i := range s {
		u[i] = struct{}{}
	}
	for i := range other {
		u[i] = struct{}{}
	}
	return u
}

// sorted returns the indices of s in ascending order.
func (s binSet) sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
