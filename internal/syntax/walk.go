package syntax

// Walk visits the tree in source order (pre-order). Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(NodeID) bool) {
	t.WalkFrom(t.Root, fn)
}

// WalkFrom is Walk restricted to the subtree rooted at id.
func (t *Tree) WalkFrom(id NodeID, fn func(NodeID) bool) {
	if id == NoNode {
		return
	}
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		kids := t.Node(cur).Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}

// Any reports whether some node strictly below id satisfies pred.
func (t *Tree) Any(id NodeID, pred func(NodeID) bool) bool {
	found := false
	t.WalkFrom(id, func(cur NodeID) bool {
		if found {
			return false
		}
		if cur != id && pred(cur) {
			found = true
			return false
		}
		return true
	})
	return found
}
