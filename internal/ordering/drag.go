package ordering

import "errors"

// ErrNoDrag is returned when a drag operation is used outside an active
// gesture.
var ErrNoDrag = errors.New("no drag in progress")

// DragTarget is the resolved landing slot of a drag gesture.
type DragTarget struct {
	ContainerID string
	Index       int
}

// DragSession models a drag gesture as a three-step command: Begin on
// pointer-down, UpdateTarget for each synchronous pointer-move, and Commit
// on pointer-release. The session performs no I/O; the caller takes the
// returned target to the order store and backend. This keeps gesture
// mechanics separate from placement logic so both are testable without a UI.
type DragSession struct {
	itemID      string
	source      string
	sourceIndex int
	target      *DragTarget
	active      bool
}

// Begin starts a gesture for itemID, remembering its source container and
// index so a failed commit can restore the original position.
func (s *DragSession) Begin(itemID, sourceContainer string, sourceIndex int) {
	s.itemID = itemID
	s.source = sourceContainer
	s.sourceIndex = sourceIndex
	s.target = &DragTarget{ContainerID: sourceContainer, Index: sourceIndex}
	s.active = true
}

// UpdateTarget recomputes the landing slot from the container's current
// geometry and the pointer position. Safe to call on every pointer-move.
func (s *DragSession) UpdateTarget(containerID string, items []OrderedItem, pointerY float64) {
	if !s.active {
		return
	}
	s.target = &DragTarget{
		ContainerID: containerID,
		Index:       ComputeInsertionIndex(items, s.itemID, pointerY),
	}
}

// SetTarget sets the landing slot directly, for keyboard-driven moves where
// no pointer geometry exists.
func (s *DragSession) SetTarget(containerID string, index int) {
	if !s.active {
		return
	}
	s.target = &DragTarget{ContainerID: containerID, Index: index}
}

// Active reports whether a gesture is in progress.
func (s *DragSession) Active() bool { return s.active }

// ItemID returns the dragged item's ID, or "" outside a gesture.
func (s *DragSession) ItemID() string {
	if !s.active {
		return ""
	}
	return s.itemID
}

// Source returns the gesture's origin slot.
func (s *DragSession) Source() DragTarget {
	return DragTarget{ContainerID: s.source, Index: s.sourceIndex}
}

// Commit ends the gesture and returns the final target.
func (s *DragSession) Commit() (DragTarget, error) {
	if !s.active || s.target == nil {
		return DragTarget{}, ErrNoDrag
	}
	t := *s.target
	s.active = false
	s.target = nil
	return t, nil
}

// Cancel abandons the gesture without producing a target.
func (s *DragSession) Cancel() {
	s.active = false
	s.target = nil
}
