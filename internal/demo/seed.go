// Package demo fills a store with sample entries for --demo runs.
package demo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/sheets"
)

func id(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+name)).String()
}

// Seed writes header rows and sample data relative to now.
func Seed(ctx context.Context, s sheets.Store, now time.Time) error {
	if err := sheets.EnsureSchema(ctx, s); err != nil {
		return err
	}
	day := func(daysAgo int) time.Time {
		y, m, d := now.AddDate(0, 0, -daysAgo).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	var rows []struct {
		table string
		row   schema.Row
	}
	add := func(table string, row schema.Row) {
		rows = append(rows, struct {
			table string
			row   schema.Row
		}{table, row})
	}

	lookups := map[string][]string{
		schema.TableKeywords: {"Labour", "Housing", "Surveillance", "Media"},
		schema.TableDomains:  {"Economics", "Politics", "History"},
		schema.TableAuthors:  {"Ada Byron", "Karl Ritter", "Mina Osei"},
		schema.TableRegions:  {"North", "South", "Capital"},
	}
	for _, table := range []string{schema.TableKeywords, schema.TableDomains, schema.TableAuthors, schema.TableRegions} {
		for _, name := range lookups[table] {
			add(table, schema.LookupItem{ID: id(table, name), Name: name}.Row())
		}
	}

	entities := []schema.Entity{
		{Name: "Mara Lind", Type: "Character", Spectrum: schema.SpectrumLeft, Description: "Union organiser."},
		{Name: "Tomas Vey", Type: "Character", Spectrum: schema.SpectrumRight, Description: "Media owner."},
		{Name: "Civic Union", Type: "Political Party", Spectrum: schema.SpectrumCentre},
		{Name: "Open Streets", Type: "Movement", Spectrum: schema.SpectrumLeft},
	}
	for i := range entities {
		entities[i].ID = id("entity", entities[i].Name)
		entities[i].CreatedAt = now.AddDate(0, 0, -90+i)
		add(schema.TableEntities, entities[i].Row())
	}

	add(schema.TableTheory, schema.Theory{
		ID:          id("theory", "housing"),
		Title:       "Housing as infrastructure",
		Abstract:    "Treats housing supply as public infrastructure.",
		Authors:     []string{id(schema.TableAuthors, "Mina Osei")},
		PublishedAt: day(200),
		SourceType:  schema.SourceArticle,
		Domains:     []string{id(schema.TableDomains, "Economics")},
		Keywords:    []string{id(schema.TableKeywords, "Housing")},
		Spectrum:    schema.SpectrumLeft,
		Category:    schema.CategoryTheory,
		Entities:    []string{entities[0].ID},
		URL:         "https://example.org/housing",
	}.Row())

	protest := id("event", "Protest")
	reports := []schema.Report{
		{
			Headline: "March on the capital", EventDate: day(40), EventTypeTag: protest,
			SourceType: schema.SourceArticle, Spectrum: schema.SpectrumLeft,
			Entities: []string{entities[3].ID}, Regions: []string{id(schema.TableRegions, "Capital")},
			URL: "https://example.org/march",
		},
		{
			Headline: "Broadcaster changes hands", EventDate: day(10),
			SourceType: schema.SourceSocialPost, Platform: "X", Spectrum: schema.SpectrumRight,
			Entities: []string{entities[1].ID}, URL: "https://example.org/broadcast",
		},
	}
	for _, r := range reports {
		r.ID = id("report", r.Headline)
		r.ReportedAt = r.EventDate.AddDate(0, 0, 1)
		r.Category = schema.CategoryReporting
		add(schema.TableReporting, r.Row())
		if r.EventTypeTag != "" {
			add(schema.TableReportingEventType, schema.ReportEventType{ReportID: r.ID, TagID: r.EventTypeTag}.Row())
		}
	}

	for i, in := range []schema.Instance{
		{Type: "exploitation", Headline: "Unpaid overtime at depot", PostContent: "Workers report unpaid shifts."},
		{Type: "discrimination", Headline: "Tenant screening complaint", PostContent: "Applicants rejected by postcode."},
		{Type: "state_violence", Headline: "Dispersal of sit-in", PostContent: "Footage of the dispersal."},
	} {
		in.ID = id("instance", in.Headline)
		in.ReportedAt = day(5 + 20*i)
		in.Locations = []string{id(schema.TableRegions, "South")}
		add(schema.TableInstances, in.Row())
	}

	tags, err := s.Read(ctx, schema.TableEventTypeTags)
	if err != nil {
		return err
	}
	if len(tags.Rows) == 0 {
		for _, name := range []string{"Protest", "Election", "Statement"} {
			add(schema.TableEventTypeTags, schema.EventTypeTag{ID: id("event", name), Name: name}.Row())
		}
	}

	for _, r := range rows {
		if err := s.Append(ctx, r.table, r.row); err != nil {
			return err
		}
	}
	return nil
}
