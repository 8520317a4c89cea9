package xmldoc

import (
	"sort"
	"strings"
)

const (
	indentUnit  = "\t"
	spacedUnit  = "    "
	headerOpen  = `<?xml version="`
	headerClose = `?>`
)

// escaper rewrites markup-significant characters in a single pass, so an
// ampersand introduced by one substitution is never escaped again.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }

// Serialize renders the node and its subtree in canonical form: one element
// per line, indented one tab per depth level below the receiver, attribute
// values and text escaped. Elements with neither value nor children
// self-close.
func (n *Node) Serialize() string {
	var b strings.Builder
	n.serialize(&b, 0)
	return b.String()
}

// SerializeCompact is the canonical form with all newline and indent
// characters stripped.
func (n *Node) SerializeCompact() string {
	return strings.NewReplacer("\n", "", indentUnit, "").Replace(n.Serialize())
}

// SerializeSpaced is the canonical form with each indent unit replaced by
// four spaces.
func (n *Node) SerializeSpaced() string {
	return strings.ReplaceAll(n.Serialize(), indentUnit, spacedUnit)
}

func (n *Node) serialize(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
	b.WriteString("<")
	b.WriteString(n.name)
	n.writeAttrs(b)

	switch {
	case n.value == nil && len(n.children) == 0:
		b.WriteString("/>")
	case len(n.children) == 0:
		b.WriteString(">")
		b.WriteString(escape(*n.value))
		b.WriteString("</")
		b.WriteString(n.name)
		b.WriteString(">")
	default:
		b.WriteString(">\n")
		for _, c := range n.children {
			c.serialize(b, depth+1)
			b.WriteString("\n")
		}
		for i := 0; i < depth; i++ {
			b.WriteString(indentUnit)
		}
		b.WriteString("</")
		b.WriteString(n.name)
		b.WriteString(">")
	}
}

// writeAttrs emits attributes sorted by key. The attribute mapping itself
// is unordered; sorting keeps output deterministic without promising any
// particular order as part of the format.
func (n *Node) writeAttrs(b *strings.Builder) {
	if len(n.attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escape(n.attrs[k]))
		b.WriteString(`"`)
	}
}
