package actionbar

import "sort"

// SourceID names an independently owned hover region.
type SourceID string

const (
	// SourceBar covers the hover area, background and both icons.
	SourceBar SourceID = "bar"
	// SourceChooser covers the nested chooser and its menu.
	SourceChooser SourceID = "chooser"
)

// HoverSet is a counted set of hovered sources. Each enter increments the
// source's count and each leave decrements it; a source is hovered while its
// count is positive. Counts never go negative.
//
// HoverSet is a value type: Enter and Leave return a modified copy.
type HoverSet struct {
	counts map[SourceID]int
}

// Enter records a pointer enter on src.
func (h HoverSet) Enter(src SourceID) HoverSet {
	next := h.clone()
	next.counts[src]++
	return next
}

// Leave records a pointer leave on src. It reports false, and returns h
// unchanged, when src had no outstanding enter to decrement.
func (h HoverSet) Leave(src SourceID) (HoverSet, bool) {
	if h.counts[src] == 0 {
		return h, false
	}
	next := h.clone()
	next.counts[src]--
	if next.counts[src] == 0 {
		delete(next.counts, src)
	}
	return next, true
}

// Any reports whether at least one source is hovered.
func (h HoverSet) Any() bool {
	return len(h.counts) > 0
}

// Hovered reports whether src is hovered.
func (h HoverSet) Hovered(src SourceID) bool {
	return h.counts[src] > 0
}

// Count returns the outstanding enters on src.
func (h HoverSet) Count(src SourceID) int {
	return h.counts[src]
}

// Sources returns the hovered sources in sorted order.
func (h HoverSet) Sources() []SourceID {
	srcs := make([]SourceID, 0, len(h.counts))
	for s := range h.counts {
		srcs = append(srcs, s)
	}
	sort.Slice(srcs, func(i, j int) bool { return srcs[i] < srcs[j] })
	return srcs
}

func (h HoverSet) clone() HoverSet {
	c := HoverSet{counts: make(map[SourceID]int, len(h.counts)+1)}
	for k, v := range h.counts {
		c.counts[k] = v
	}
	return c
}
