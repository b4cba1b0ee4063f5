package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabricdb/fabricdb/errs"
	"github.com/fabricdb/fabricdb/format"
)

func TestPropertyStore_TypedValuesOnVertex(t *testing.T) {
	g, path := newTestGraph(t)
	root := rootClass(t, g)
	person := mustCreateClass(t, g, root, "Person")
	v, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	age, err := g.Properties().CreateOnVertex(v.ID, "age")
	require.NoError(t, err)
	g.Properties().SetInteger(age, 42)

	height, err := g.Properties().CreateOnVertex(v.ID, "height")
	require.NoError(t, err)
	g.Properties().SetReal(height, 1.83)

	active, err := g.Properties().CreateOnVertex(v.ID, "active")
	require.NoError(t, err)
	g.Properties().SetBoolean(active, true)

	// The chain is prepended: active -> height -> age.
	require.Equal(t, active.ID, v.FirstPropertyID)
	require.Equal(t, height.ID, active.NextID)
	require.Equal(t, age.ID, height.NextID)

	require.NoError(t, g.Flush())
	g2 := reopen(t, g, path)
	v2, err := g2.Vertices().Get(v.ID)
	require.NoError(t, err)

	p, err := g2.Properties().Get(v2.FirstPropertyID)
	require.NoError(t, err)
	require.True(t, p.Boolean())

	p, err = g2.Properties().Next(p)
	require.NoError(t, err)
	require.Equal(t, 1.83, p.Real())

	p, err = g2.Properties().Next(p)
	require.NoError(t, err)
	require.Equal(t, int64(42), p.Integer())
	key, err := g2.Labels().Text(p.LabelID)
	require.NoError(t, err)
	require.Equal(t, "age", key)
}

func TestPropertyStore_ShortAndLongText(t *testing.T) {
	g, path := newTestGraph(t)
	root := rootClass(t, g)
	person := mustCreateClass(t, g, root, "Person")
	v, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	nick, err := g.Properties().CreateOnVertex(v.ID, "nick")
	require.NoError(t, err)
	require.NoError(t, g.Properties().SetText(nick, "ada"))
	require.Equal(t, format.TypeText3, nick.Type)

	bio, err := g.Properties().CreateOnVertex(v.ID, "bio")
	require.NoError(t, err)
	long := "wrote the first published algorithm intended for a machine"
	require.NoError(t, g.Properties().SetText(bio, long))
	require.Equal(t, format.TypeLongText, bio.Type)
	require.NotZero(t, bio.TextID())

	require.NoError(t, g.Flush())
	g2 := reopen(t, g, path)

	p, err := g2.Properties().Get(nick.ID)
	require.NoError(t, err)
	text, err := g2.Properties().Text(p)
	require.NoError(t, err)
	require.Equal(t, "ada", text)

	p, err = g2.Properties().Get(bio.ID)
	require.NoError(t, err)
	text, err = g2.Properties().Text(p)
	require.NoError(t, err)
	require.Equal(t, long, text)
}

func TestPropertyStore_OverwritingLongTextReleasesIt(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)
	person := mustCreateClass(t, g, root, "Person")
	v, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	p, err := g.Properties().CreateOnVertex(v.ID, "bio")
	require.NoError(t, err)
	require.NoError(t, g.Properties().SetText(p, "a long biography exceeding eight bytes"))
	oldTextID := p.TextID()
	require.NotZero(t, oldTextID)

	g.Properties().SetInteger(p, 7)
	require.Equal(t, int64(7), p.Integer())

	_, err = g.Texts().Get(oldTextID)
	require.ErrorIs(t, err, errs.ErrTextNotFound)
}

func TestPropertyStore_RemoveFromVertex(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)
	person := mustCreateClass(t, g, root, "Person")
	v, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)

	a, err := g.Properties().CreateOnVertex(v.ID, "a")
	require.NoError(t, err)
	b, err := g.Properties().CreateOnVertex(v.ID, "b")
	require.NoError(t, err)
	c, err := g.Properties().CreateOnVertex(v.ID, "c")
	require.NoError(t, err)
	labelID := b.LabelID

	// Chain c -> b -> a: removing the middle property splices around it.
	require.NoError(t, g.Properties().RemoveFromVertex(v.ID, b.ID))
	require.Equal(t, c.ID, v.FirstPropertyID)
	require.Equal(t, a.ID, c.NextID)
	require.Equal(t, uint32(2), g.Properties().Count())

	_, err = g.Properties().Get(b.ID)
	require.ErrorIs(t, err, errs.ErrPropertyNotFound)
	_, err = g.Labels().Get(labelID)
	require.ErrorIs(t, err, errs.ErrLabelNotFound)

	// Removing the head rewrites the chain head.
	require.NoError(t, g.Properties().RemoveFromVertex(v.ID, c.ID))
	require.Equal(t, a.ID, v.FirstPropertyID)
}

func TestPropertyStore_OnEdge(t *testing.T) {
	g, _ := newTestGraph(t)
	root := rootClass(t, g)
	person := mustCreateClass(t, g, root, "Person")
	x, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)
	y, err := g.Vertices().Create(person.ID)
	require.NoError(t, err)
	e, err := g.Edges().Create("knows", x.ID, y.ID)
	require.NoError(t, err)

	since, err := g.Properties().CreateOnEdge(e.ID, "since")
	require.NoError(t, err)
	g.Properties().SetDatetime(since, 1427760000)

	require.Equal(t, since.ID, e.FirstPropertyID)
	require.Equal(t, int64(1427760000), since.Datetime())

	require.NoError(t, g.Properties().RemoveFromEdge(e.ID, since.ID))
	require.Zero(t, e.FirstPropertyID)
}
