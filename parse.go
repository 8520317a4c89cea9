package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// treeBuilder consumes tokenizer events and incrementally populates a
// document's tree. The character-level scanner is delegated to
// encoding/xml; any lexical failure surfaces as a ParseError and the
// partially built tree is discarded by the caller.
type treeBuilder struct {
	doc  *Document
	opts *options
}

func (b *treeBuilder) build(data []byte) error {
	r, err := b.inputReader(data)
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = !b.opts.resolveExternalEntities

	current := b.doc.node
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return &ParseError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > b.opts.maxDepth {
				return &ParseError{Err: fmt.Errorf("nesting exceeds max depth %d", b.opts.maxDepth)}
			}
			node := NewNode(b.elementName(t.Name))
			for _, a := range t.Attr {
				node.SetAttr(b.attrName(a.Name), a.Value)
			}
			current.AddChild(node)
			current = node
		case xml.CharData:
			if current == b.doc.node {
				continue
			}
			text := string(t)
			if b.opts.trimWhitespace {
				text = strings.TrimSpace(text)
			}
			if text == "" {
				continue
			}
			if existing, ok := current.Value(); ok {
				current.SetValue(existing + text)
			} else {
				current.SetValue(text)
			}
		case xml.EndElement:
			if current != b.doc.node {
				current = current.parent
				depth--
			}
		}
	}
	if current != b.doc.node {
		return &ParseError{Err: fmt.Errorf("unexpected end of input inside <%s>", current.Name())}
	}
	return nil
}

// inputReader wraps the raw bytes with a transcoding reader when the caller
// declared a text encoding. An unknown encoding label fails the parse.
func (b *treeBuilder) inputReader(data []byte) (io.Reader, error) {
	r := io.Reader(bytes.NewReader(data))
	if b.opts.inputEncoding == "" {
		return r, nil
	}
	tr, err := charset.NewReaderLabel(b.opts.inputEncoding, r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return tr, nil
}

// elementName resolves a tokenizer name against the namespace options:
// local name only by default, "namespace:local" when namespace processing
// is enabled.
func (b *treeBuilder) elementName(name xml.Name) string {
	if !b.opts.processNamespaces || name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// attrName qualifies attribute names only when prefix reporting is
// requested on top of namespace processing.
func (b *treeBuilder) attrName(name xml.Name) string {
	if !b.opts.processNamespaces || !b.opts.reportNamespacePrefixes || name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}
