// Package drag tracks one pointer-driven reorder gesture from activation to
// release or cancellation.
package drag

import "kanban-cli/internal/hittest"

// ActivationDistance is the Euclidean distance (in cells) the pointer must
// travel from the press point before a drag is recognized. Below it, a
// press/release pair is a click, so click-to-edit is never misread as a drag.
const ActivationDistance = 2

type state int

const (
	stateIdle state = iota
	// stateArmed: pointer is down on a card but has not crossed the
	// activation threshold.
	stateArmed
	stateDragging
)

// Drop is the single mutation a completed gesture produces.
type Drop struct {
	CardID string
	Target hittest.Target
}

// Session is a short-lived state machine bound to one pointer gesture. The
// zero value is idle and ready for Press.
type Session struct {
	state  state
	cardID string
	origin hittest.Point
}

// Press records a pointer-down on a card. Any gesture already in progress is
// discarded.
func (s *Session) Press(cardID string, at hittest.Point) {
	s.state = stateArmed
	s.cardID = cardID
	s.origin = at
}

// Move feeds a pointer position. Once the activation threshold is crossed it
// returns the current best drop candidate for preview. The preview never
// mutates the board.
func (s *Session) Move(at hittest.Point, regions []hittest.Region) (hittest.Target, bool) {
	switch s.state {
	case stateArmed:
		if !activated(s.origin, at) {
			return hittest.Target{}, false
		}
		s.state = stateDragging
	case stateDragging:
	default:
		return hittest.Target{}, false
	}
	candidates := hittest.Resolve(at, regions)
	if len(candidates) == 0 {
		return hittest.Target{}, false
	}
	return candidates[0], true
}

// Release ends the gesture. It yields a drop only when the gesture was an
// activated drag and the resolved target is not the dragged card itself; the
// session returns to idle either way, so a duplicate release yields nothing.
func (s *Session) Release(at hittest.Point, regions []hittest.Region) (Drop, bool) {
	if s.state != stateDragging {
		s.reset()
		return Drop{}, false
	}
	cardID := s.cardID
	s.reset()

	candidates := hittest.Resolve(at, regions)
	if len(candidates) == 0 {
		return Drop{}, false
	}
	top := candidates[0]
	if top.Kind == hittest.TargetCard && top.ID == cardID {
		return Drop{}, false
	}
	return Drop{CardID: cardID, Target: top}, true
}

// Cancel abandons the gesture with no mutation.
func (s *Session) Cancel() { s.reset() }

// Dragging reports whether the activation threshold has been crossed.
func (s *Session) Dragging() bool { return s.state == stateDragging }

// ActiveCard returns the lifted card id while a gesture is in progress.
func (s *Session) ActiveCard() (string, bool) {
	if s.state == stateIdle {
		return "", false
	}
	return s.cardID, true
}

func (s *Session) reset() {
	s.state = stateIdle
	s.cardID = ""
}

func activated(origin, at hittest.Point) bool {
	dx := at.X - origin.X
	dy := at.Y - origin.Y
	return dx*dx+dy*dy >= ActivationDistance*ActivationDistance
}
