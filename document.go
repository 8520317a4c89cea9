package xmldoc

import "strings"

// Document wraps a single element tree together with serialization header
// options. It is composed of, not derived from, a plain Node: the document
// node itself is never part of queries or flattened output, it only anchors
// the root element.
type Document struct {
	node *Node
	opts options
}

// NewDocument returns an empty document. The root may be supplied later via
// LoadBytes or by attaching a node with SetRoot.
func NewDocument(opts ...Option) (*Document, error) {
	o := defaultOptions()
	if err := o.apply(opts); err != nil {
		return nil, err
	}
	return &Document{node: &Node{}, opts: o}, nil
}

// NewDocumentWithRoot returns a document anchored on the given root node.
func NewDocumentWithRoot(root *Node, opts ...Option) (*Document, error) {
	d, err := NewDocument(opts...)
	if err != nil {
		return nil, err
	}
	d.SetRoot(root)
	return d, nil
}

// Parse builds a document tree from raw XML bytes. Input with no element
// yields a document whose Root is an ErrRootElementMissing sentinel, not an
// error; lexical malformation fails with a ParseError.
func Parse(data []byte, opts ...Option) (*Document, error) {
	d, err := NewDocument(opts...)
	if err != nil {
		return nil, err
	}
	if err := d.LoadBytes(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Root returns the document's root element: the first child of the document
// node, or a sentinel tagged ErrRootElementMissing if the document is
// empty.
func (d *Document) Root() *Node {
	if len(d.node.children) == 0 {
		return sentinel(ErrRootElementMissing)
	}
	return d.node.children[0]
}

// SetRoot clears the document and attaches root as its only child.
func (d *Document) SetRoot(root *Node) {
	d.clear()
	if root != nil {
		d.node.AddChild(root)
	}
}

// LoadBytes clears any existing tree, then rebuilds the document from raw
// XML bytes via the tokenizer. On failure the document is left empty rather
// than partially built.
func (d *Document) LoadBytes(data []byte) error {
	d.clear()
	b := &treeBuilder{doc: d, opts: &d.opts}
	if err := b.build(data); err != nil {
		d.clear()
		return err
	}
	return nil
}

func (d *Document) clear() {
	for len(d.node.children) > 0 {
		d.node.detachAt(0)
	}
}

// Serialize renders the document header followed by the root element's
// canonical form.
func (d *Document) Serialize() string {
	var b strings.Builder
	b.WriteString(headerOpen)
	b.WriteString(d.opts.version)
	b.WriteString(`" encoding="`)
	b.WriteString(d.opts.encoding)
	b.WriteString(`" standalone="`)
	b.WriteString(d.opts.standalone)
	b.WriteString(`"`)
	b.WriteString(headerClose)
	root := d.Root()
	if root.Err() != nil {
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(root.Serialize())
	return b.String()
}

// SerializeCompact is Serialize with all newline and indent characters
// stripped.
func (d *Document) SerializeCompact() string {
	return strings.NewReplacer("\n", "", indentUnit, "").Replace(d.Serialize())
}

// SerializeSpaced is Serialize with each indent unit replaced by four
// spaces.
func (d *Document) SerializeSpaced() string {
	return strings.ReplaceAll(d.Serialize(), indentUnit, spacedUnit)
}

// Flatten delegates to the root element; the document node itself does not
// appear in the flattened result. An empty document flattens to an empty
// map.
func (d *Document) Flatten() Value {
	root := d.Root()
	if root.Err() != nil {
		return NewMap()
	}
	return root.Flatten()
}
