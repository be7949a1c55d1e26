package ast

// WalkFunc is called for each node during a walk. Returning an error stops
// the walk and propagates the error.
type WalkFunc func(n Node) error

// Walk visits n and all its descendants in depth-first order.
func Walk(n Node, fn WalkFunc) error {
	if n == nil {
		return nil
	}
	if err := fn(n); err != nil {
		return err
	}
	if el, ok := n.(Element); ok {
		for _, c := range el.Children {
			if err := Walk(c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Invalids collects all Invalid nodes in the tree, in document order.
func Invalids(n Node) []Invalid {
	var out []Invalid
	_ = Walk(n, func(n Node) error {
		if inv, ok := n.(Invalid); ok {
			out = append(out, inv)
		}
		return nil
	})
	return out
}
