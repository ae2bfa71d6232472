package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/sheets"
	"github.com/jask/sheetdesk/internal/tagselect"
)

var (
	housing = tagselect.Option{Value: "housing", Label: "Housing"}
	labour  = tagselect.Option{Value: "labour", Label: "Labour"}
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureSchema(context.Background(), store))
	return catalog.New(store, nil)
}

func keyPress(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return keyRunes(name)
}

func send(t *testing.T, f *Form, msg tea.Msg) (tea.Cmd, bool) {
	t.Helper()
	next, cmd, pop := f.Update(msg)
	require.Same(t, f, next)
	return cmd, pop
}

func focusField(t *testing.T, f *Form, name string) *formField {
	t.Helper()
	for i, fl := range f.fields {
		if fl.key == name {
			f.focusIndex(i)
			return fl
		}
	}
	t.Fatalf("no field %q", name)
	return nil
}

func TestFormFeedsTagChangesBack(t *testing.T) {
	f := newTheoryForm(context.Background(), testCatalog(t), catalog.Options{Keywords: []tagselect.Option{labour, housing}})
	fl := focusField(t, f, "keywords")
	require.True(t, fl.tags.Open())

	send(t, f, keyPress("Hou"))
	send(t, f, keyPress("down"))
	cmd, _ := send(t, f, keyPress("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(tagselect.ChangedMsg)
	require.True(t, ok)
	require.Equal(t, "keywords", msg.ID)

	send(t, f, msg)
	require.Equal(t, []tagselect.Option{housing}, f.Tags("keywords"))
	require.Equal(t, []tagselect.Option{housing}, fl.tags.Value())

	// Removing the chip again reports the empty selection.
	cmd, _ = send(t, f, tea.KeyMsg{Type: tea.KeyBackspace})
	require.NotNil(t, cmd)
	send(t, f, cmd())
	require.Empty(t, f.Tags("keywords"))
}

func TestFormCreatesAdHocTags(t *testing.T) {
	f := newTheoryForm(context.Background(), testCatalog(t), catalog.Options{Keywords: []tagselect.Option{labour}})
	focusField(t, f, "keywords")
	send(t, f, keyPress("Rent Control"))
	cmd, _ := send(t, f, keyPress("enter"))
	require.NotNil(t, cmd)
	send(t, f, cmd())
	require.Equal(t, []tagselect.Option{{Value: "rent_control", Label: "Rent Control"}}, f.Tags("keywords"))
}

func TestEntityTagsRejectNewOptions(t *testing.T) {
	f := newReportForm(context.Background(), testCatalog(t), catalog.Options{})
	fl := focusField(t, f, "entities")
	require.False(t, fl.tags.AllowNew())
	send(t, f, keyPress("Nobody"))
	cmd, _ := send(t, f, keyPress("enter"))
	require.Nil(t, cmd)
	require.Empty(t, f.Tags("entities"))
}

func TestFormEscClosesDropdownBeforeForm(t *testing.T) {
	f := newTheoryForm(context.Background(), testCatalog(t), catalog.Options{})
	fl := focusField(t, f, "authors")
	require.True(t, fl.tags.Open())

	_, pop := send(t, f, keyPress("esc"))
	require.False(t, pop)
	require.False(t, fl.tags.Open())

	_, pop = send(t, f, keyPress("esc"))
	require.True(t, pop)
}

func TestPlatformOnlyForSocialPosts(t *testing.T) {
	f := newTheoryForm(context.Background(), testCatalog(t), catalog.Options{})
	require.Equal(t, "src_type", f.Focused())

	send(t, f, keyPress("tab"))
	require.Equal(t, "title", f.Focused())

	send(t, f, keyPress("shift+tab"))
	require.Equal(t, "src_type", f.Focused())
	send(t, f, keyPress("right"))
	require.Equal(t, "social media post", f.Choice("src_type"))

	send(t, f, keyPress("tab"))
	require.Equal(t, "platform", f.Focused())
	body, _ := f.layout()
	require.Contains(t, body, "Post content")
}

func TestTabBlurDismissesDropdown(t *testing.T) {
	f := newInstanceForm(context.Background(), testCatalog(t), catalog.Options{}, "exploitation")
	fl := focusField(t, f, "locations")
	require.True(t, fl.tags.Open())
	send(t, f, keyPress("tab"))
	require.False(t, fl.tags.Open())
	require.False(t, fl.tags.Focused())
	require.Equal(t, "instance_type", f.Focused())
}

func TestSubmitReportsMissingFields(t *testing.T) {
	f := newTheoryForm(context.Background(), testCatalog(t), catalog.Options{})
	cmd, _ := send(t, f, keyPress("ctrl+s"))
	require.NotNil(t, cmd)

	res, ok := cmd().(formResultMsg)
	require.True(t, ok)
	var verr *catalog.ValidationError
	require.ErrorAs(t, res.err, &verr)

	_, pop := send(t, f, res)
	require.False(t, pop)
	require.Contains(t, f.err, "missing")
	require.Contains(t, f.View(80, 60), "missing")
}

func TestSubmitRejectsBadDates(t *testing.T) {
	f := newInstanceForm(context.Background(), testCatalog(t), catalog.Options{}, "exploitation")
	f.SetText("reported", "last week")
	cmd, _ := send(t, f, keyPress("ctrl+s"))
	require.Nil(t, cmd)
	require.Contains(t, f.err, "date reported")
}

func TestSubmitSavesEntity(t *testing.T) {
	ctx := context.Background()
	c := testCatalog(t)
	f := newEntityForm(ctx, c, "Movement")
	require.Equal(t, "Movement", f.Choice("entity_type"))
	f.SetText("name", "Open Streets")

	cmd, _ := send(t, f, keyPress("ctrl+s"))
	require.NotNil(t, cmd)
	require.True(t, f.busy)
	// A second submit while the first is running is ignored.
	again, _ := send(t, f, keyPress("ctrl+s"))
	require.Nil(t, again)

	res := cmd().(formResultMsg)
	require.NoError(t, res.err)
	done, pop := send(t, f, res)
	require.True(t, pop)
	require.NotNil(t, done)

	ents, err := c.Entities(ctx)
	require.NoError(t, err)
	require.Len(t, ents, 1)
	require.Equal(t, "Open Streets", ents[0].Name)
	require.Equal(t, "Movement", ents[0].Type)
}

func TestMouseFocusesTagField(t *testing.T) {
	f := newReportForm(context.Background(), testCatalog(t), catalog.Options{Regions: []tagselect.Option{housing}})
	f.View(60, 200)
	_, regions := f.layout()

	idx := -1
	for i, fl := range f.fields {
		if fl.key == "regions" {
			idx = i
		}
	}
	r := regions[idx]
	click := tea.MouseMsg{X: r.x + 1, Y: r.y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	send(t, f, click)
	require.Equal(t, "regions", f.Focused())
	require.True(t, f.fields[idx].tags.Open())

	outside := tea.MouseMsg{X: r.x + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	send(t, f, outside)
	require.False(t, f.fields[idx].tags.Open())
}

func TestLateChangeKeepsLaterEdit(t *testing.T) {
	f := newTheoryForm(context.Background(), testCatalog(t), catalog.Options{Keywords: []tagselect.Option{housing}})
	fl := focusField(t, f, "keywords")

	send(t, f, keyPress("Housing"))
	added, _ := send(t, f, keyPress("enter"))
	require.NotNil(t, added)
	removed, _ := send(t, f, tea.KeyMsg{Type: tea.KeyBackspace})
	require.NotNil(t, removed)

	// The first change lands after the tag was already removed again.
	send(t, f, added())
	require.Empty(t, fl.tags.Value())
	require.Equal(t, []tagselect.Option{housing}, f.Tags("keywords"))

	send(t, f, removed())
	require.Empty(t, fl.tags.Value())
	require.Empty(t, f.Tags("keywords"))
}

func TestMouseClickSelectsDropdownRow(t *testing.T) {
	f := newReportForm(context.Background(), testCatalog(t), catalog.Options{Regions: []tagselect.Option{labour, housing}})
	f.View(60, 200)
	fl := focusField(t, f, "regions")
	require.True(t, fl.tags.Open())

	idx := -1
	for i, field := range f.fields {
		if field == fl {
			idx = i
		}
	}
	_, regions := f.layout()
	r := regions[idx]

	// The dropdown border sits under the input line; Housing is the second row.
	send(t, f, tea.MouseMsg{X: r.x + 3, Y: r.y + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, []tagselect.Option{housing}, fl.tags.Value())
	require.Equal(t, "regions", f.Focused())
}

func TestSetOptionsRefreshesOpenForm(t *testing.T) {
	f := newReportForm(context.Background(), testCatalog(t), catalog.Options{})
	regions := focusField(t, f, "regions")
	require.Empty(t, regions.tags.Options())

	f.SetOptions(catalog.Options{
		Regions:    []tagselect.Option{housing},
		EventTypes: []tagselect.Option{{Value: "protest", Label: "Protest"}},
	})
	require.Equal(t, []tagselect.Option{housing}, regions.tags.Options())
	require.Equal(t, []tagselect.Option{housing}, regions.tags.Filtered())

	f.SetChoice("event_type", "protest")
	f.SetOptions(catalog.Options{EventTypes: []tagselect.Option{
		{Value: "election", Label: "Election"},
		{Value: "protest", Label: "Protest"},
	}})
	require.Equal(t, "protest", f.Choice("event_type"))
	require.Empty(t, regions.tags.Options())
}
