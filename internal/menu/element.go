package menu

// Element is a node in the rendered menu tree. Nodes are moved between
// parents with Append and Detach; nothing in this package ever copies or
// rebuilds a node that already exists.
type Element struct {
	Class string
	Label string
	Href  string

	parent   *Element
	children []*Element
}

// NewElement returns a detached element.
func NewElement(class, label string) *Element {
	return &Element{Class: class, Label: label}
}

// Append attaches children in order, detaching each from any previous parent.
func (e *Element) Append(children ...*Element) *Element {
	for _, child := range children {
		if child == nil || child == e {
			continue
		}
		child.Detach()
		child.parent = e
		e.children = append(e.children, child)
	}
	return e
}

// Detach removes e from its parent, leaving e and its own children intact.
func (e *Element) Detach() {
	if e.parent == nil {
		return
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// DetachChildren detaches every child of e.
func (e *Element) DetachChildren() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Parent returns the element e is attached to, or nil.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of e's children in order.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// Find returns the first direct child with the given class.
func (e *Element) Find(class string) *Element {
	for _, c := range e.children {
		if c.Class == class {
			return c
		}
	}
	return nil
}
