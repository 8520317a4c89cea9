package xmldoc_test

import (
	"testing"

	xmldoc "github.com/KimNorgaard/go-xmldoc"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Run("Scalar Child", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<person><name>Bob</name><age>42</age></person>`))
		require.NoError(t, err)

		flat := doc.Root().Flatten()
		require.Equal(t, []string{"name", "age"}, flat.Keys())

		name, _ := flat.Get("name")
		require.Equal(t, xmldoc.KindScalar, name.Kind())
		require.Equal(t, "Bob", name.Scalar())
	})

	t.Run("Repeated Scalar Children", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<p><tag>a</tag><tag>b</tag></p>`))
		require.NoError(t, err)

		tags, _ := doc.Root().Flatten().Get("tag")
		require.Equal(t, xmldoc.KindList, tags.Kind())
		require.Len(t, tags.List(), 2)
		require.Equal(t, "a", tags.List()[0].Scalar())
		require.Equal(t, "b", tags.List()[1].Scalar())
	})

	t.Run("Wrapper With Scalar Children", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<p><tags><tag>a</tag><tag>b</tag></tags></p>`))
		require.NoError(t, err)

		tags, _ := doc.Root().Flatten().Get("tags")
		require.Equal(t, xmldoc.KindList, tags.Kind())
		require.Equal(t, "a", tags.List()[0].Scalar())
		require.Equal(t, "b", tags.List()[1].Scalar())
	})

	t.Run("Group With Complex Children Flattens To Mappings", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<p><item><a/><b/></item><item><c/></item></p>`))
		require.NoError(t, err)

		items, _ := doc.Root().Flatten().Get("item")
		require.Equal(t, xmldoc.KindList, items.Kind())
		require.Len(t, items.List(), 2)

		first := items.List()[0]
		require.Equal(t, xmldoc.KindMap, first.Kind())
		require.Equal(t, []string{"a", "b"}, first.Keys())
	})

	t.Run("Sub-Children Force Nested Treatment", func(t *testing.T) {
		doc, err := xmldoc.Parse([]byte(`<p><x>scalar</x><x><y>deep</y></x></p>`))
		require.NoError(t, err)

		x, _ := doc.Root().Flatten().Get("x")
		require.NotEqual(t, xmldoc.KindScalar, x.Kind())
	})
}

func TestValueVariant(t *testing.T) {
	t.Run("Map Keeps Insertion Order", func(t *testing.T) {
		m := xmldoc.NewMap()
		m.Set("z", xmldoc.NewScalar("1"))
		m.Set("a", xmldoc.NewScalar("2"))
		m.Set("z", xmldoc.NewScalar("3"))

		require.Equal(t, []string{"z", "a"}, m.Keys())
		z, _ := m.Get("z")
		require.Equal(t, "3", z.Scalar())
	})

	t.Run("Set On Non-Map Panics", func(t *testing.T) {
		require.Panics(t, func() {
			xmldoc.NewScalar("x").Set("k", xmldoc.NewScalar("v"))
		})
	})
}

func TestGenericProjection(t *testing.T) {
	t.Run("Map Entries Become Named Children", func(t *testing.T) {
		m := xmldoc.NewMap()
		m.Set("name", xmldoc.NewScalar("Bob"))
		nested := xmldoc.NewMap()
		nested.Set("city", xmldoc.NewScalar("Oslo"))
		m.Set("address", nested)

		root := xmldoc.NewNode("person")
		root.AddChildrenFromMap(m)

		v, _ := root.Child("name").Value()
		require.Equal(t, "Bob", v)
		city, _ := root.Child("address").Child("city").Value()
		require.Equal(t, "Oslo", city)
	})

	t.Run("List Entries Wrap Elements As Items", func(t *testing.T) {
		root := xmldoc.NewNode("p")
		root.AddListElement("tags", xmldoc.NewList(
			xmldoc.NewScalar("a"),
			xmldoc.NewScalar("b"),
		))

		items := root.Child("tags").Child("Item").All()
		require.Len(t, items, 2)
		v, _ := items[1].Value()
		require.Equal(t, "b", v)
	})

	t.Run("Nested Maps Inside Lists Recurse", func(t *testing.T) {
		entry := xmldoc.NewMap()
		entry.Set("k", xmldoc.NewScalar("v"))

		root := xmldoc.NewNode("p")
		root.AddListElement("rows", xmldoc.NewList(entry))

		v, _ := root.Child("rows").Child("Item").Child("k").Value()
		require.Equal(t, "v", v)
	})

	t.Run("Projection Shares Attach Semantics", func(t *testing.T) {
		m := xmldoc.NewMap()
		m.Set("a", xmldoc.NewScalar("1"))

		root := xmldoc.NewNode("p")
		root.AddChildrenFromMap(m)
		require.Same(t, root, root.Child("a").Parent())
	})
}
