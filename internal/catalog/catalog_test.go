package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/sheets"
	"github.com/jask/sheetdesk/internal/tagselect"
)

var fixedNow = time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) (*Catalog, *sheets.MemoryStore) {
	t.Helper()
	store := sheets.NewMemoryStore()
	require.NoError(t, sheets.EnsureSchema(context.Background(), store))
	c := New(store, zap.NewNop())
	c.now = func() time.Time { return fixedNow }
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return c, store
}

func appendRow(t *testing.T, s sheets.Store, table string, row schema.Row) {
	t.Helper()
	require.NoError(t, s.Append(context.Background(), table, row))
}

func rows(t *testing.T, s sheets.Store, table string) [][]string {
	t.Helper()
	tbl, err := s.Read(context.Background(), table)
	require.NoError(t, err)
	return tbl.Rows
}

// failingStore fails reads of one table.
type failingStore struct {
	sheets.Store
	table string
}

func (f failingStore) Read(ctx context.Context, table string) (sheets.Table, error) {
	if table == f.table {
		return sheets.Table{}, errors.New("boom")
	}
	return f.Store.Read(ctx, table)
}

func TestLoadOptions(t *testing.T) {
	c, store := newTestCatalog(t)
	appendRow(t, store, schema.TableKeywords, schema.LookupItem{ID: "economy", Name: "Economy"}.Row())
	appendRow(t, store, schema.TableKeywords, schema.LookupItem{Name: "Foreign Policy"}.Row())
	appendRow(t, store, schema.TableEntities, schema.Entity{ID: "e1", Name: "Jane Doe", Type: "Character"}.Row())
	appendRow(t, store, schema.TableEventTypeTags, schema.EventTypeTag{ID: "t2", Name: "vote"}.Row())
	appendRow(t, store, schema.TableEventTypeTags, schema.EventTypeTag{ID: "t1", Name: "Arrest"}.Row())

	opts, warnings := c.LoadOptions(context.Background())
	require.Empty(t, warnings)
	require.Equal(t, []tagselect.Option{
		{Value: "economy", Label: "Economy"},
		{Value: "foreign_policy", Label: "Foreign Policy"},
	}, opts.Keywords)
	require.Equal(t, []tagselect.Option{{Value: "e1", Label: "Jane Doe"}}, opts.Entities)
	require.Equal(t, []tagselect.Option{{Value: "t1", Label: "Arrest"}, {Value: "t2", Label: "vote"}}, opts.EventTypes)
	require.Empty(t, opts.Regions)
}

func TestLoadOptionsFailureLeavesSetEmpty(t *testing.T) {
	c, store := newTestCatalog(t)
	appendRow(t, store, schema.TableKeywords, schema.LookupItem{ID: "k", Name: "K"}.Row())
	appendRow(t, store, schema.TableDomains, schema.LookupItem{ID: "d", Name: "D"}.Row())
	c.Store = failingStore{Store: store, table: schema.TableDomains}

	opts, warnings := c.LoadOptions(context.Background())
	require.Len(t, warnings, 1)
	require.Nil(t, opts.Domains)
	require.Len(t, opts.Keywords, 1)
}

func TestSubmitTheoryValidation(t *testing.T) {
	c, store := newTestCatalog(t)
	_, err := c.SubmitTheory(context.Background(), TheoryDraft{Title: "  ", URL: "notaurl"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"source type", "title", "abstract"}, verr.Missing)
	require.Equal(t, []string{"url"}, verr.Invalid)
	require.Empty(t, rows(t, store, schema.TableTheory))
}

func TestSubmitTheory(t *testing.T) {
	c, store := newTestCatalog(t)
	got, err := c.SubmitTheory(context.Background(), TheoryDraft{
		SourceType: schema.SourceArticle,
		Platform:   "X",
		Title:      "On power",
		Abstract:   "Short abstract",
		URL:        "https://example.org/p",
		Keywords:   []tagselect.Option{{Value: "power", Label: "Power"}, {Value: "state", Label: "State"}},
		Entities:   []tagselect.Option{{Value: "e1", Label: "Jane"}},
	})
	require.NoError(t, err)
	require.Equal(t, "id-1", got.ID)
	require.Empty(t, got.Platform, "platform is only kept for social media posts")

	data := rows(t, store, schema.TableTheory)
	require.Len(t, data, 1)
	var stored schema.Theory
	tbl, _ := store.Read(context.Background(), schema.TableTheory)
	require.NoError(t, schema.Decode(tbl.Records()[0], &stored))
	require.Equal(t, got, stored)
	require.Equal(t, []string{"power", "state"}, stored.Keywords)
	require.Equal(t, schema.CategoryTheory, stored.Category)

	require.Empty(t, rows(t, store, schema.TableKeywords), "new options are not persisted by default")
}

func TestSubmitReportLinksEventType(t *testing.T) {
	c, store := newTestCatalog(t)
	_, err := c.SubmitReport(context.Background(), ReportDraft{SourceType: schema.SourceArticle})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"headline", "url", "event date"}, verr.Missing)

	r, err := c.SubmitReport(context.Background(), ReportDraft{
		SourceType:   schema.SourceSocialPost,
		Platform:     "FB",
		Headline:     "March",
		Description:  "A march happened",
		URL:          "http://example.org/m",
		EventDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		EventTypeTag: "t1",
		Regions:      []tagselect.Option{{Value: "north", Label: "North"}},
	})
	require.NoError(t, err)
	require.Equal(t, "FB", r.Platform)
	require.Equal(t, "2024-05-06", schema.FormatDate(r.ReportedAt))
	require.Equal(t, [][]string{{r.ID, "t1"}}, rows(t, store, schema.TableReportingEventType))

	_, err = c.SubmitReport(context.Background(), ReportDraft{
		SourceType: schema.SourceArticle, Headline: "h", URL: "https://x.org", EventDate: fixedNow,
	})
	require.NoError(t, err)
	require.Len(t, rows(t, store, schema.TableReportingEventType), 1, "no link without an event type")
}

func TestSubmitEntityAndInstance(t *testing.T) {
	c, store := newTestCatalog(t)

	_, err := c.SubmitEntity(context.Background(), EntityDraft{Name: "Party A"})
	require.ErrorContains(t, err, "missing entity type")

	e, err := c.SubmitEntity(context.Background(), EntityDraft{Name: " Party A ", Type: "Political Party", Spectrum: schema.SpectrumLeft})
	require.NoError(t, err)
	require.Equal(t, "Party A", e.Name)
	require.Equal(t, fixedNow, e.CreatedAt)
	require.Len(t, rows(t, store, schema.TableEntities), 1)

	_, err = c.SubmitInstance(context.Background(), InstanceDraft{Type: "exploitation", Headline: "h"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"post content", "date reported"}, verr.Missing)

	_, err = c.SubmitInstance(context.Background(), InstanceDraft{
		Type: "exploitation", Headline: "h", PostContent: "body", ReportedAt: fixedNow,
	})
	require.NoError(t, err)
	require.Len(t, rows(t, store, schema.TableInstances), 1)
}

func TestPersistNewOptions(t *testing.T) {
	c, store := newTestCatalog(t)
	c.PersistNewOptions = true
	appendRow(t, store, schema.TableKeywords, schema.LookupItem{ID: "power", Name: "Power"}.Row())

	_, err := c.SubmitTheory(context.Background(), TheoryDraft{
		SourceType: schema.SourceArticle,
		Title:      "t",
		Abstract:   "a",
		URL:        "https://example.org",
		Keywords: []tagselect.Option{
			{Value: "power", Label: "Power"},
			{Value: "new_idea", Label: "New Idea"},
		},
		Authors: []tagselect.Option{{Value: "ann", Label: "Ann"}},
	})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"power", "Power"}, {"new_idea", "New Idea"}}, rows(t, store, schema.TableKeywords))
	require.Equal(t, [][]string{{"ann", "Ann"}}, rows(t, store, schema.TableAuthors))
}

func TestWiki(t *testing.T) {
	c, store := newTestCatalog(t)
	appendRow(t, store, schema.TableEntities, schema.Entity{ID: "e1", Name: "Jane Doe", Type: "Character"}.Row())
	appendRow(t, store, schema.TableEntities, schema.Entity{ID: "e2", Name: "Party A", Type: "Political Party"}.Row())
	appendRow(t, store, schema.TableEntities, schema.Entity{ID: "e3", Name: "John Roe", Type: "character"}.Row())
	appendRow(t, store, schema.TableTheory, schema.Theory{ID: "t1", Title: "About Jane", Entities: []string{"E1"}}.Row())
	appendRow(t, store, schema.TableReporting, schema.Report{ID: "r1", Headline: "Party news", Entities: []string{"party a"}}.Row())

	w, err := c.Wiki(context.Background())
	require.NoError(t, err)
	require.Len(t, w.Groups, len(schema.EntityTypes))

	chars := w.Group("Character")
	require.Equal(t, "Characters", chars.Label)
	require.Len(t, chars.Cards, 2)
	require.Len(t, chars.Cards[0].Theories, 1)
	require.Empty(t, chars.Cards[1].Theories)

	party := w.Group("Political Party")
	require.Len(t, party.Cards, 1)
	require.Len(t, party.Cards[0].Reports, 1)

	found := w.Search("Character", "roe")
	require.Len(t, found, 1)
	require.Equal(t, "John Roe", found[0].Entity.Name)
	require.Len(t, w.Search("Character", ""), 2)
	require.Empty(t, w.Search("Movement", "x"))
}

func TestReportsSearch(t *testing.T) {
	c, store := newTestCatalog(t)
	appendRow(t, store, schema.TableReporting, schema.Report{ID: "1", Headline: "Flood", Regions: []string{"south"}}.Row())
	appendRow(t, store, schema.TableReporting, schema.Report{ID: "2", Headline: "Vote", Authors: []string{"ann"}}.Row())
	appendRow(t, store, schema.TableReporting, schema.Report{ID: "3", Headline: "Other", SourceType: schema.SourceArticle}.Row())

	all, err := c.Reports(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	for query, want := range map[string]string{"SOUTH": "1", "ann": "2", "artic": "3", "vot": "2"} {
		got, err := c.Reports(context.Background(), query)
		require.NoError(t, err)
		require.Len(t, got, 1, query)
		require.Equal(t, want, got[0].ID, query)
	}
}

func TestInstancesByType(t *testing.T) {
	c, store := newTestCatalog(t)
	appendRow(t, store, schema.TableInstances, schema.Instance{ID: "1", Type: "exploitation"}.Row())
	appendRow(t, store, schema.TableInstances, schema.Instance{ID: "2", Type: "discrimination"}.Row())

	got, err := c.Instances(context.Background(), "discrimination")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].ID)
}

func TestTimeline(t *testing.T) {
	c, store := newTestCatalog(t)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	appendRow(t, store, schema.TableReporting, schema.Report{ID: "r1", Headline: "Old", EventDate: day(1, 3)}.Row())
	appendRow(t, store, schema.TableReporting, schema.Report{ID: "r2", Headline: "Undated"}.Row())
	appendRow(t, store, schema.TableInstances, schema.Instance{ID: "i1", Headline: "Newest", Type: "exploitation", ReportedAt: day(3, 20)}.Row())
	appendRow(t, store, schema.TableInstances, schema.Instance{ID: "i2", Headline: "Early March", ReportedAt: day(3, 2)}.Row())

	months, err := c.Timeline(context.Background())
	require.NoError(t, err)
	require.Len(t, months, 3)
	require.Equal(t, "March 2024", months[0].Label())
	require.Equal(t, []string{"Newest", "Early March"}, titles(months[0].Events))
	require.Equal(t, "Exploitation", months[0].Events[0].Detail)
	require.Equal(t, "January 2024", months[1].Label())
	require.Equal(t, "Undated", months[2].Label())
}

func titles(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestImportExportCSV(t *testing.T) {
	c, store := newTestCatalog(t)
	appendRow(t, store, schema.TableRegions, schema.LookupItem{ID: "north", Name: "North"}.Row())

	data := strings.Join([]string{
		"Name, id",
		"South,south",
		"North,north",
		"East,",
	}, "\n")
	res, err := c.ImportCSV(context.Background(), "regions", strings.NewReader(data))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 1, res.Skipped)

	var buf bytes.Buffer
	n, err := c.ExportCSV(context.Background(), "REGIONS", &buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "id,name\nnorth,North\nsouth,South\nid-1,East\n", buf.String())
}

func TestImportCSVRejects(t *testing.T) {
	c, _ := newTestCatalog(t)
	_, err := c.ImportCSV(context.Background(), "CARDS", strings.NewReader("a\n"))
	require.Error(t, err)
	_, err = c.ImportCSV(context.Background(), "regions", strings.NewReader(""))
	require.ErrorContains(t, err, "empty")
	_, err = c.ImportCSV(context.Background(), "regions", strings.NewReader("id,colour\n"))
	require.ErrorContains(t, err, "colour")

	res, err := c.ImportCSV(context.Background(), "instances", strings.NewReader("headline,date_reported\nok,2024-01-01\nbad,someday\n"))
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	require.ErrorContains(t, res.Errors[0], "line 3")
}
