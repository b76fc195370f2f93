package region

import "sort"

type sizeEntry struct {
	area   int64
	seq    int
	region int
}

// SizeIndex orders regions by area. Equal areas are kept side by side in
// insertion order instead of replacing each other.
//
// Entries are stored ascending by (area, insertion sequence) and scanned from
// the end, so the largest region comes first and, among equal areas, the one
// inserted last comes first.
type SizeIndex struct {
	entries []sizeEntry
	seq     int
}

// NewSizeIndex indexes every non-degenerate region in slice order
func NewSizeIndex(regions []Region) *SizeIndex {
	idx := &SizeIndex{entries: make([]sizeEntry, 0, len(regions))}
	for i := range regions {
		if regions[i].Degenerate() {
			continue
		}
		idx.Add(regions[i].Area, i)
	}
	return idx
}

// Add inserts a region index under the given area
func (x *SizeIndex) Add(area int64, region int) {
	pos := sort.Search(len(x.entries), func(i int) bool {
		return x.entries[i].area > area
	})
	x.entries = append(x.entries, sizeEntry{})
	copy(x.entries[pos+1:], x.entries[pos:])
	x.entries[pos] = sizeEntry{area: area, seq: x.seq, region: region}
	x.seq++
}

// Len returns the number of indexed regions
func (x *SizeIndex) Len() int { return len(x.entries) }

// Descending returns the indexed region indexes, largest area first
func (x *SizeIndex) Descending() []int {
	out := make([]int, 0, len(x.entries))
	for i := len(x.entries) - 1; i >= 0; i-- {
		out = append(out, x.entries[i].region)
	}
	return out
}
