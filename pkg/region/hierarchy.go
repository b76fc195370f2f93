package region

// FindParent attaches regions[i] to the smallest region that encloses it and
// reports whether one was found.
//
// The index is scanned from the largest area down. The first enclosing region
// becomes the tentative parent; if one of its already recorded children also
// encloses the target and is smaller, that child wins instead. Only the direct
// children of the first match are checked, grandchildren are not visited, so
// nesting more than one level below the first match is not resolved by this
// pass.
//
// Regions ranked at or after the target in the index are never candidates.
// Everything there is no larger than the target, and skipping equal-area
// regions ranked later keeps two identical rectangles from adopting each other.
func FindParent(regions []Region, i int, idx *SizeIndex) bool {
	target := &regions[i]
	if target.Degenerate() {
		return false
	}

	for e := len(idx.entries) - 1; e >= 0; e-- {
		entry := idx.entries[e]
		if entry.area < target.Area || entry.region == i {
			break
		}

		candidate := &regions[entry.region]
		if !Contains(candidate, target) {
			continue
		}

		best := entry.region
		for _, c := range candidate.Children {
			child := &regions[c]
			if Contains(child, target) && child.Area < regions[best].Area {
				best = c
			}
		}

		target.Parent = best
		regions[best].Children = append(regions[best].Children, i)
		return true
	}
	return false
}

// Forest is the parent/child structure built over a region set
type Forest struct {
	Regions    []Region // The caller's master slice, now linked
	Roots      []int    // Non-degenerate regions without a parent, in slice order
	Degenerate []int    // Zero-area regions left out of the hierarchy
}

// BuildHierarchy links every region of the set to its parent.
//
// Existing links are cleared first, the size index is built once from the
// whole set, and regions are then attached largest first so that a parent's
// children are recorded before anything smaller looks for its own parent.
// The result depends only on the input order, never on map iteration or
// timing.
func BuildHierarchy(regions []Region) *Forest {
	for i := range regions {
		regions[i].Parent = NoParent
		regions[i].Children = nil
	}

	idx := NewSizeIndex(regions)
	for _, i := range idx.Descending() {
		FindParent(regions, i, idx)
	}

	f := &Forest{Regions: regions}
	for i := range regions {
		switch {
		case regions[i].Degenerate():
			f.Degenerate = append(f.Degenerate, i)
		case !regions[i].HasParent():
			f.Roots = append(f.Roots, i)
		}
	}
	return f
}

// Ancestors returns the parent chain of region i, nearest first
func (f *Forest) Ancestors(i int) []int {
	var out []int
	for p := f.Regions[i].Parent; p != NoParent; p = f.Regions[p].Parent {
		out = append(out, p)
		if len(out) > len(f.Regions) {
			break
		}
	}
	return out
}

// Depth returns the number of ancestors of region i
func (f *Forest) Depth(i int) int {
	return len(f.Ancestors(i))
}

// Walk visits every linked region depth first, roots in slice order and
// children in the order they were attached. It stops at the first error.
func (f *Forest) Walk(fn func(r *Region, depth int) error) error {
	var visit func(i, depth int) error
	visit = func(i, depth int) error {
		if err := fn(&f.Regions[i], depth); err != nil {
			return err
		}
		for _, c := range f.Regions[i].Children {
			if err := visit(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range f.Roots {
		if err := visit(r, 0); err != nil {
			return err
		}
	}
	return nil
}

// Leaves returns the regions that take part in the hierarchy but have no children
func (f *Forest) Leaves() []int {
	var out []int
	for i := range f.Regions {
		if !f.Regions[i].Degenerate() && len(f.Regions[i].Children) == 0 {
			out = append(out, i)
		}
	}
	return out
}
