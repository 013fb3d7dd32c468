package types

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses a type tree in depth-first order.
func Walk(node Node, v Visitor) {
	if u, ok := node.(*Union); node == nil || (ok && u == nil) || !v(node) {
		return
	}
	switch n := node.(type) {
	case *Union:
		for _, t := range n.types {
			Walk(t, v)
		}
	case Atomic:
		for _, c := range n.ChildNodes() {
			Walk(c, v)
		}
	}
}
