package xmldoc_test

import (
	"testing"

	xmldoc "github.com/KimNorgaard/go-xmldoc"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Structure And Order", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<catalog>
			<book id="1"><title>First</title></book>
			<book id="2"><title>Second</title></book>
		</catalog>`))
		require.NoError(t, err)

		root := doc.Root()
		require.Equal(t, "catalog", root.Name())
		books := root.Child("book").All()
		require.Len(t, books, 2)

		id, _ := books[0].Attr("id")
		require.Equal(t, "1", id)
		title, ok := books[1].Child("title").Value()
		require.True(t, ok)
		require.Equal(t, "Second", title)
	})

	t.Run("Entities Unescaped", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<m q="a &amp; b">1 &lt; 2</m>`))
		require.NoError(t, err)

		v, _ := doc.Root().Value()
		require.Equal(t, "1 < 2", v)
		q, _ := doc.Root().Attr("q")
		require.Equal(t, "a & b", q)
	})

	t.Run("Malformed Input", func(t *testing.T) {
		for _, input := range []string{
			"<a><b></a>",
			"<a>",
			"<a></b>",
			"<'bad/>",
		} {
			_, err := xmldoc.Parse([]byte(input))
			require.ErrorIs(t, err, xmldoc.ErrParsingFailed, "input %q", input)
		}
	})

	t.Run("Text With No Element Yields Empty Document", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte("just text"))
		require.NoError(t, err)
		require.ErrorIs(t, doc.Root().Err(), xmldoc.ErrRootElementMissing)
	})

	t.Run("Whitespace Trimmed By Default", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte("<m>  padded  </m>"))
		require.NoError(t, err)
		v, _ := doc.Root().Value()
		require.Equal(t, "padded", v)
	})

	t.Run("Whitespace Kept On Request", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte("<m>  padded  </m>"), xmldoc.TrimWhitespace(false))
		require.NoError(t, err)
		v, _ := doc.Root().Value()
		require.Equal(t, "  padded  ", v)
	})

	t.Run("Whitespace-Only Text Yields No Value", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte("<m>\n\t</m>"))
		require.NoError(t, err)
		_, ok := doc.Root().Value()
		require.False(t, ok)
	})

	t.Run("Split Character Data Accumulates", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte("<m>one<x/>two</m>"))
		require.NoError(t, err)
		v, _ := doc.Root().Value()
		require.Equal(t, "onetwo", v)
	})
}

func TestParseNamespaces(t *testing.T) {
	input := []byte(`<a xmlns="urn:x" xmlns:p="urn:y" p:attr="v"><b/></a>`)

	t.Run("Local Names By Default", func(t *testing.T) {
		doc, err := xmldoc.Parse(input)
		require.NoError(t, err)
		require.Equal(t, "a", doc.Root().Name())
		require.Equal(t, "b", doc.Root().Child("b").Name())
	})

	t.Run("Qualified Element Names", func(t *testing.T) {
		doc, err := xmldoc.Parse(input, xmldoc.ProcessNamespaces(true))
		require.NoError(t, err)
		require.Equal(t, "urn:x:a", doc.Root().Name())
	})

	t.Run("Qualified Attribute Names", func(t *testing.T) {
		doc, err := xmldoc.Parse(input,
			xmldoc.ProcessNamespaces(true),
			xmldoc.ReportNamespacePrefixes(true),
		)
		require.NoError(t, err)
		_, ok := doc.Root().Attr("urn:y:attr")
		require.True(t, ok)
	})
}

func TestParseEntityHandling(t *testing.T) {
	t.Run("Undeclared Entities Denied By Default", func(t *testing.T) {
		_, err := xmldoc.Parse([]byte("<a>&undeclared;</a>"))
		require.ErrorIs(t, err, xmldoc.ErrParsingFailed)
	})

	t.Run("Lenient Mode Passes Entities Through", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte("<a>&undeclared;</a>"), xmldoc.ResolveExternalEntities(true))
		require.NoError(t, err)
		v, _ := doc.Root().Value()
		require.Contains(t, v, "undeclared")
	})
}

func TestParseInputEncoding(t *testing.T) {
	t.Run("Declared Encoding Transcodes", func(t *testing.T) {
		// "café" in ISO-8859-1: the é is the single byte 0xE9.
		raw := []byte("<m>caf\xe9</m>")
		doc, err := xmldoc.Parse(raw, xmldoc.InputEncoding("iso-8859-1"))
		require.NoError(t, err)
		v, _ := doc.Root().Value()
		require.Equal(t, "café", v)
	})

	t.Run("Unknown Encoding Label Fails", func(t *testing.T) {
		_, err := xmldoc.Parse([]byte("<m/>"), xmldoc.InputEncoding("not-a-charset"))
		require.ErrorIs(t, err, xmldoc.ErrParsingFailed)
	})
}

func TestParseMaxDepth(t *testing.T) {
	_, err := xmldoc.Parse([]byte("<a><b><c/></b></a>"), xmldoc.MaxDepth(2))
	require.ErrorIs(t, err, xmldoc.ErrParsingFailed)

	_, err = xmldoc.Parse([]byte("<a><b><c/></b></a>"), xmldoc.MaxDepth(3))
	require.NoError(t, err)

	_, err = xmldoc.Parse(nil, xmldoc.MaxDepth(0))
	require.Error(t, err)
}
