package xmldoc

import "strings"

// Node is an element in an ordered tree: a non-empty name, an optional
// scalar text value, a set of uniquely keyed attributes, and an ordered
// sequence of children. A node owns its children; the parent reference is
// non-owning and valid only while the node is attached.
//
// Direct lookups never fail: a miss returns a sentinel node tagged with
// ErrElementNotFound, so lookups chain safely without error handling at
// every step.
type Node struct {
	name     string
	value    *string
	attrs    map[string]string
	children []*Node
	parent   *Node
	err      error
}

// NewNode returns a detached node with the given name.
func NewNode(name string) *Node {
	return &Node{name: name}
}

// sentinel returns an empty node tagged with err, used in place of nil from
// direct lookups.
func sentinel(err error) *Node {
	return &Node{err: err}
}

// Name returns the node's element name.
func (n *Node) Name() string { return n.name }

// SetName replaces the node's element name.
func (n *Node) SetName(name string) { n.name = name }

// Value returns the node's scalar text value, if it has one.
func (n *Node) Value() (string, bool) {
	if n.value == nil {
		return "", false
	}
	return *n.value, true
}

// SetValue sets the node's scalar text value.
func (n *Node) SetValue(v string) { n.value = &v }

// ClearValue removes the node's scalar text value.
func (n *Node) ClearValue() { n.value = nil }

// Err returns the error tag carried by a sentinel node, or nil for any node
// that is part of a tree.
func (n *Node) Err() error { return n.err }

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr sets an attribute, replacing any existing value for the key.
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// RemoveAttr deletes the named attribute if present.
func (n *Node) RemoveAttr(key string) { delete(n.attrs, key) }

// Attrs returns the node's attribute mapping. Iteration order is not
// stable; callers must not depend on attribute order.
func (n *Node) Attrs() map[string]string { return n.attrs }

// Parent returns the owning parent, or nil for a detached or document-level
// node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in document order. The returned
// slice is the node's own; use the mutation methods to modify the tree.
func (n *Node) Children() []*Node { return n.children }

// Child returns the first child with the given name, or a sentinel node
// tagged with ErrElementNotFound. Lookup never fails outright, so chained
// lookups like node.Child("a").Child("b") are safe.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return sentinel(ErrElementNotFound)
}

// All returns every sibling sharing this node's name, including the node
// itself, in document order. It returns nil for a node with no parent.
func (n *Node) All() []*Node {
	if n.parent == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.parent.children {
		if c.name == n.name {
			out = append(out, c)
		}
	}
	return out
}

// First returns the first same-named sibling, or the node itself if it has
// no parent.
func (n *Node) First() *Node {
	if all := n.All(); len(all) > 0 {
		return all[0]
	}
	return n
}

// Last returns the last same-named sibling, or the node itself if it has no
// parent.
func (n *Node) Last() *Node {
	if all := n.All(); len(all) > 0 {
		return all[len(all)-1]
	}
	return n
}

// Count returns the number of same-named siblings, including the node
// itself.
func (n *Node) Count() int { return len(n.All()) }

// AllWithValue filters All to nodes whose value equals v.
func (n *Node) AllWithValue(v string) []*Node {
	var out []*Node
	for _, s := range n.All() {
		if s.value != nil && *s.value == v {
			out = append(out, s)
		}
	}
	return out
}

// AllWithAttributeKeys filters All to nodes whose attribute keys are a
// superset of keys.
func (n *Node) AllWithAttributeKeys(keys ...string) []*Node {
	var out []*Node
	for _, s := range n.All() {
		if hasAttrKeys(s, keys) {
			out = append(out, s)
		}
	}
	return out
}

// AllWithAttributes filters All to nodes whose attribute mapping agrees
// exactly on every given key/value pair.
func (n *Node) AllWithAttributes(attrs map[string]string) []*Node {
	var out []*Node
	for _, s := range n.All() {
		match := true
		for k, v := range attrs {
			if got, ok := s.attrs[k]; !ok || got != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, s)
		}
	}
	return out
}

func hasAttrKeys(n *Node, keys []string) bool {
	for _, k := range keys {
		if _, ok := n.attrs[k]; !ok {
			return false
		}
	}
	return true
}

// Descendants returns every strict descendant matching the predicate, in
// depth-first pre-order: each child is visited before its own descendants,
// which are visited before the next sibling. The node itself is excluded.
func (n *Node) Descendants(match func(*Node) bool) []*Node {
	var out []*Node
	for _, c := range n.children {
		if match(c) {
			out = append(out, c)
		}
		out = append(out, c.Descendants(match)...)
	}
	return out
}

// FirstDescendant returns the first strict descendant matching the
// predicate in pre-order, or nil if none matches.
func (n *Node) FirstDescendant(match func(*Node) bool) *Node {
	for _, c := range n.children {
		if match(c) {
			return c
		}
		if d := c.FirstDescendant(match); d != nil {
			return d
		}
	}
	return nil
}

// HasDescendant reports whether any strict descendant matches the
// predicate.
func (n *Node) HasDescendant(match func(*Node) bool) bool {
	return n.FirstDescendant(match) != nil
}

// FirstDescendantWithAttributeContaining returns the first direct child
// having any attribute value that contains the given substring.
//
// Unlike the other descendant queries this deliberately scans direct
// children only; it is an attribute probe for the immediate level, not a
// recursive search.
func (n *Node) FirstDescendantWithAttributeContaining(substr string) *Node {
	for _, c := range n.children {
		for _, v := range c.attrs {
			if strings.Contains(v, substr) {
				return c
			}
		}
	}
	return nil
}

// AddChild attaches child as the last element of the children sequence and
// sets its parent reference. A node already attached elsewhere is detached
// from its previous parent first, so it appears in exactly one children
// sequence. It returns the attached node.
func (n *Node) AddChild(child *Node) *Node {
	if child.parent != nil {
		child.RemoveFromParent()
	}
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// AddChildren attaches each node in order.
func (n *Node) AddChildren(children ...*Node) {
	for _, c := range children {
		n.AddChild(c)
	}
}

// AddElement constructs a node with the given name, value and attributes,
// attaches it, and returns it.
func (n *Node) AddElement(name, value string, attrs map[string]string) *Node {
	child := NewNode(name)
	child.SetValue(value)
	for k, v := range attrs {
		child.SetAttr(k, v)
	}
	return n.AddChild(child)
}

// RemoveChild detaches the first child with the given name, if present. The
// child's entire subtree leaves all traversals with it.
func (n *Node) RemoveChild(name string) {
	for i, c := range n.children {
		if c.name == name {
			n.detachAt(i)
			return
		}
	}
}

// RemoveFromParent detaches the node from its parent. Removal is by
// identity, not by name, so a same-named sibling is never removed in its
// place.
func (n *Node) RemoveFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.detachAt(i)
			return
		}
	}
}

func (n *Node) detachAt(i int) {
	c := n.children[i]
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
}
