// Package hittest resolves a drag pointer position to an ordered list of drop
// candidates over the currently rendered card and column regions.
package hittest

import (
	"math"
	"sort"
)

type TargetKind int

const (
	TargetCard TargetKind = iota
	TargetColumn
)

// Target identifies a droppable entity. Kind disambiguates card ids from
// column ids so consumers never parse id strings.
type Target struct {
	Kind TargetKind
	ID   string
}

// Rect is a droppable rectangle in terminal cells. W and H are inclusive
// extents: a rect at X=0 with W=10 covers columns 0 through 9.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) centerY() float64 {
	return float64(r.Y) + float64(r.H)/2
}

// corners returns the rect's four corner points.
func (r Rect) corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W - 1, r.Y},
		{r.X, r.Y + r.H - 1},
		{r.X + r.W - 1, r.Y + r.H - 1},
	}
}

type Point struct {
	X, Y int
}

// Region pairs a droppable target with the rectangle it currently occupies.
type Region struct {
	Target Target
	Rect   Rect
}

// Resolve returns drop candidates ordered best-first. Three tiers, first
// non-empty wins:
//
//  1. Card regions containing the pointer, closest vertical center first.
//     Containment alone is ambiguous over a dense card stack; ranking by
//     center distance keeps the preview stable while hovering.
//  2. Any other regions containing the pointer, in input order (hovering
//     empty column space).
//  3. No containment at all (fast movement past every rect): all regions by
//     closest-corner distance, nearest first.
func Resolve(p Point, regions []Region) []Target {
	var cardHits []Region
	var otherHits []Region
	for _, r := range regions {
		if !r.Rect.Contains(p) {
			continue
		}
		if r.Target.Kind == TargetCard {
			cardHits = append(cardHits, r)
		} else {
			otherHits = append(otherHits, r)
		}
	}

	if len(cardHits) > 0 {
		sort.SliceStable(cardHits, func(i, j int) bool {
			di := math.Abs(cardHits[i].Rect.centerY() - float64(p.Y))
			dj := math.Abs(cardHits[j].Rect.centerY() - float64(p.Y))
			return di < dj
		})
		return targets(cardHits)
	}
	if len(otherHits) > 0 {
		return targets(otherHits)
	}
	return closestCorners(p, regions)
}

func closestCorners(p Point, regions []Region) []Target {
	if len(regions) == 0 {
		return nil
	}
	type scored struct {
		r Region
		d float64
	}
	ranked := make([]scored, 0, len(regions))
	for _, r := range regions {
		best := math.Inf(1)
		for _, c := range r.Rect.corners() {
			dx := float64(c.X - p.X)
			dy := float64(c.Y - p.Y)
			if d := math.Hypot(dx, dy); d < best {
				best = d
			}
		}
		ranked = append(ranked, scored{r, best})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].d < ranked[j].d })
	out := make([]Target, len(ranked))
	for i, s := range ranked {
		out[i] = s.r.Target
	}
	return out
}

func targets(regions []Region) []Target {
	out := make([]Target, len(regions))
	for i, r := range regions {
		out[i] = r.Target
	}
	return out
}
