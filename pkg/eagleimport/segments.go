package eagleimport

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceImport/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceImport/pkg/kicad/schematic"
)

// Label correction walks in 50 mil steps and gives up after a bounded
// number of trials rather than looping on degenerate geometry.
const (
	labelStep      = 50
	maxLabelTrials = 128
)

// segmentGroup collects the wires of one source net segment together with
// the labels attached to it.
type segmentGroup struct {
	netName string
	segs    []geometry.Seg
	labels  []*schematic.Label
}

func (g *segmentGroup) addSeg(s geometry.Seg) {
	g.segs = append(g.segs, s)
}

func (g *segmentGroup) addLabel(l *schematic.Label) {
	g.labels = append(g.labels, l)
}

// segContaining returns a segment of the group the point lies on, or nil.
func (g *segmentGroup) segContaining(p geometry.Point) *geometry.Seg {
	for i := range g.segs {
		if g.segs[i].Contains(p) {
			return &g.segs[i]
		}
	}
	return nil
}

// segmentTracker accumulates the segment groups of one sheet and the
// crossing points between wires of different groups. A crossing between
// different groups is where a label must not sit: the label would be read
// as naming the wrong net.
type segmentTracker struct {
	groups        []*segmentGroup
	intersections []geometry.Point
}

func newSegmentTracker() *segmentTracker {
	return &segmentTracker{}
}

// newGroup opens a group for one source segment.
func (t *segmentTracker) newGroup(netName string) *segmentGroup {
	g := &segmentGroup{netName: netName}
	t.groups = append(t.groups, g)
	return g
}

// reset drops all per-sheet state.
func (t *segmentTracker) reset() {
	t.groups = nil
	t.intersections = nil
}

// collectIntersections computes every crossing between wires of different
// nets and stores them sorted for binary search. Endpoint touches are not
// crossings, and two segments of the same net cannot mislabel each other.
func (t *segmentTracker) collectIntersections() {
	t.intersections = t.intersections[:0]
	for i, a := range t.groups {
		for _, b := range t.groups[i+1:] {
			if a.netName == b.netName {
				continue
			}
			for _, sa := range a.segs {
				for _, sb := range b.segs {
					if p, ok := sa.Intersect(sb, true); ok {
						t.intersections = append(t.intersections, p)
					}
				}
			}
		}
	}
	sort.Slice(t.intersections, func(i, j int) bool {
		return t.intersections[i].Less(t.intersections[j])
	})
}

// hasIntersection reports whether p is a recorded cross-group crossing.
func (t *segmentTracker) hasIntersection(p geometry.Point) bool {
	i := sort.Search(len(t.intersections), func(i int) bool {
		return !t.intersections[i].Less(p)
	})
	return i < len(t.intersections) && t.intersections[i] == p
}

// findNearestLinePoint returns the closest of every segment's start, center
// and end to the given point.
func findNearestLinePoint(p geometry.Point, segs []geometry.Seg) (geometry.Point, bool) {
	var nearest geometry.Point
	best := -1.0
	for _, s := range segs {
		for _, cand := range [3]geometry.Point{s.A, s.Center(), s.B} {
			d := p.DistanceTo(cand)
			if best < 0 || d < best {
				best = d
				nearest = cand
			}
		}
	}
	return nearest, best >= 0
}

// adjustLabels re-homes labels so each one sits on a wire of its own group,
// away from any cross-group crossing. A label already placed that way is
// left alone; a label the walk cannot place is left where it was.
func (t *segmentTracker) adjustLabels() {
	for _, g := range t.groups {
		for _, label := range g.labels {
			attached := g.segContaining(label.Pos)
			if attached != nil && !t.hasIntersection(label.Pos) {
				continue
			}

			pos, ok := findNearestLinePoint(label.Pos, g.segs)
			if !ok {
				continue
			}

			if t.hasIntersection(pos) {
				seg := attached
				if seg == nil {
					seg = g.segContaining(pos)
				}
				if seg == nil {
					continue
				}

				step := seg.Vector().Resize(labelStep)
				moved := false
				for trial := 1; trial <= maxLabelTrials; trial++ {
					delta := step.Scale((trial + 1) / 2)
					cand := pos.Add(delta)
					if trial%2 == 0 {
						cand = pos.Sub(delta)
					}
					if !seg.Contains(cand) {
						continue
					}
					if !t.hasIntersection(cand) {
						pos = cand
						moved = true
						break
					}
				}
				if !moved {
					continue
				}
			}

			label.Pos = pos
		}
	}
}
