package blog

import "sort"

// ScrollSpy reports which heading of a rendered post is currently active.
type ScrollSpy interface {
	Active(ids []string) string
}

// Box is the vertical extent of an element relative to the viewport top.
type Box struct {
	Top    float64
	Bottom float64
}

// Observation window, as fractions of the viewport height. A heading
// counts as visible only between 10% and 40% from the top.
const (
	spyTopMargin    = 0.10
	spyBottomMargin = 0.60
)

// LayoutSpy implements ScrollSpy over measured heading boxes. Layout
// returns false for ids that are not rendered.
type LayoutSpy struct {
	ViewportHeight float64
	Layout         func(id string) (Box, bool)
}

// Active returns the visible heading closest to the top of the window, or
// "" when none is visible; callers keep their previous state in that case.
func (s LayoutSpy) Active(ids []string) string {
	if s.Layout == nil || s.ViewportHeight <= 0 {
		return ""
	}
	top := s.ViewportHeight * spyTopMargin
	bottom := s.ViewportHeight * (1 - spyBottomMargin)

	type visible struct {
		id  string
		top float64
	}
	var hits []visible
	for _, id := range ids {
		box, ok := s.Layout(id)
		if !ok {
			continue
		}
		if box.Bottom > top && box.Top < bottom {
			hits = append(hits, visible{id: id, top: box.Top})
		}
	}
	if len(hits) == 0 {
		return ""
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].top < hits[j].top })
	return hits[0].id
}
