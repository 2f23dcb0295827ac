package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppState_FindAndActive(t *testing.T) {
	s := NewAppState()
	s.Append(NewPaper("tab-1", "One"))
	s.Append(NewPaper("tab-2", "Two"))

	p, i := s.Find("tab-1")
	require.NotNil(t, p)
	assert.Equal(t, 0, i)

	p, i = s.Find("missing")
	assert.Nil(t, p)
	assert.Equal(t, -1, i)

	require.NotNil(t, s.Active())
	assert.Equal(t, "tab-2", s.Active().ID, "append activates the new tab")
}

func TestAppState_RoundTrip(t *testing.T) {
	s := NewAppState()

	one := NewPaper("tab-1", "With Highlights")
	one.Notes = "margin notes"
	one.LastPage = 7
	one.LastScale = 1.75
	one.Highlights = []Highlight{
		{ID: "h1", Text: "first", Page: 2, Rects: []Rect{{Left: 1, Top: 2, Width: 30, Height: 12}}, Color: ColorYellow, Scale: 1.0},
		{ID: "h2", Text: "second", Page: 2, Rects: []Rect{{Left: 5, Top: 40, Width: 55, Height: 12}}, Color: ColorPink, Scale: 1.5},
		{ID: "h3", Text: "", Page: 9, Rects: []Rect{{Left: 0, Top: 0, Width: 10, Height: 10}}, Color: ColorBlue, Scale: 2.0},
	}
	s.Append(one)

	two := NewPaper("tab-2", "Empty")
	two.Notes = ""
	s.Append(two)
	s.ActiveTabID = "tab-1"

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var got AppState
	require.NoError(t, json.Unmarshal(data, &got))

	require.Len(t, got.Tabs, 2)
	assert.Equal(t, "tab-1", got.ActiveTabID)

	g := got.Tabs[0]
	assert.Equal(t, one.Name, g.Name)
	assert.Equal(t, one.Notes, g.Notes)
	assert.Equal(t, one.LastPage, g.LastPage)
	assert.Equal(t, one.LastScale, g.LastScale)
	require.Len(t, g.Highlights, 3)
	for i, h := range g.Highlights {
		assert.Equal(t, one.Highlights[i].Text, h.Text)
		assert.Equal(t, one.Highlights[i].Page, h.Page)
		assert.Equal(t, one.Highlights[i].Color, h.Color)
		assert.Equal(t, one.Highlights[i].Rects, h.Rects)
	}

	assert.Equal(t, "Empty", got.Tabs[1].Name)
	assert.Empty(t, got.Tabs[1].Highlights)
}

func TestAppState_Remove(t *testing.T) {
	s := NewAppState()
	s.Append(NewPaper("tab-1", "One"))
	s.Append(NewPaper("tab-2", "Two"))
	s.Append(NewPaper("tab-3", "Three"))

	s.Remove(1)

	require.Len(t, s.Tabs, 2)
	assert.Equal(t, "tab-1", s.Tabs[0].ID)
	assert.Equal(t, "tab-3", s.Tabs[1].ID)
}
