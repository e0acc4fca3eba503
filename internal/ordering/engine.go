// Package ordering implements the generic drag-reorder engine shared by the
// kanban board and the weekly scheduler: insertion-index computation from a
// pointer position, explicit per-container ID orderings, and the drag
// gesture command that ties the two together.
package ordering

// OrderedItem is the geometric snapshot of one item in a container at the
// moment of a pointer-move: its ID plus its vertical extent.
type OrderedItem struct {
	ID     string
	Top    float64
	Height float64
}

// ComputeInsertionIndex returns the index at which a dragged item should be
// inserted into the container described by items, given the pointer's
// vertical position. For every candidate item other than the dragged one,
// the offset pointerY - midpoint is computed; among items whose midpoint
// lies below the pointer (offset < 0) the one closest to zero wins. If the
// pointer is below every midpoint, the insertion point is the end of the
// container. Ties go to the first item in container order, which makes the
// function total and deterministic for any snapshot.
func ComputeInsertionIndex(items []OrderedItem, draggedID string, pointerY float64) int {
	bestIndex := -1
	bestOffset := 0.0
	insertIdx := 0
	for _, item := range items {
		if item.ID == draggedID {
			continue
		}
		offset := pointerY - (item.Top + item.Height/2)
		if offset < 0 && (bestIndex == -1 || offset > bestOffset) {
			bestIndex = insertIdx
			bestOffset = offset
		}
		insertIdx++
	}
	if bestIndex == -1 {
		return insertIdx
	}
	return bestIndex
}

// Reconcile emits the IDs of order that are present in live, in order
// sequence, then appends any live IDs missing from order. This is the
// single reconciliation rule for both kanban columns (membership follows
// status, order follows the persisted list) and calendar days (new items
// surface at the end rather than being dropped).
func Reconcile(order []string, live []string) []string {
	liveSet := make(map[string]bool, len(live))
	for _, id := range live {
		liveSet[id] = true
	}

	result := make([]string, 0, len(live))
	seen := make(map[string]bool, len(live))
	for _, id := range order {
		if liveSet[id] && !seen[id] {
			result = append(result, id)
			seen[id] = true
		}
	}
	for _, id := range live {
		if !seen[id] {
			result = append(result, id)
			seen[id] = true
		}
	}
	return result
}

// InsertAt returns ids with id inserted at index, removing any prior
// occurrence first. Indices past the end append.
func InsertAt(ids []string, id string, index int) []string {
	out := make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(out) {
		index = len(out)
	}
	out = append(out, "")
	copy(out[index+1:], out[index:])
	out[index] = id
	return out
}

// Remove returns ids without id.
func Remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
