package sqm

// Parameters returns every parameter occurrence under n in pre-order.
func Parameters(n Node) []Parameter {
	var out []Parameter
	Inspect(n, func(c Node) bool {
		if p, ok := c.(Parameter); ok {
			out = append(out, p)
		}
		return true
	})
	return out
}

// FromElements returns every from element owned by the tree rooted at n,
// including those of subqueries, in pre-order.
func FromElements(n Node) []FromElement {
	var out []FromElement
	Inspect(n, func(c Node) bool {
		if fe, ok := c.(FromElement); ok {
			out = append(out, fe)
		}
		return true
	})
	return out
}
