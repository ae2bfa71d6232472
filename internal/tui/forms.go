package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/tagselect"
)

func eventTypeChoices(opts []tagselect.Option) []schema.Choice {
	out := make([]schema.Choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, schema.Choice{Value: o.Value, Label: o.Label})
	}
	return out
}

func authorsOf(o catalog.Options) []tagselect.Option { return o.Authors }
func domainsOf(o catalog.Options) []tagselect.Option { return o.Domains }
func keywordsOf(o catalog.Options) []tagselect.Option { return o.Keywords }
func entitiesOf(o catalog.Options) []tagselect.Option { return o.Entities }
func regionsOf(o catalog.Options) []tagselect.Option { return o.Regions }
func eventTypesOf(o catalog.Options) []tagselect.Option { return o.EventTypes }

// SetOptions hands a freshly loaded option set to every field that draws
// from one. Selections and a chosen event type are kept.
func (f *Form) SetOptions(opts catalog.Options) {
	for _, fl := range f.fields {
		if fl.options == nil {
			continue
		}
		switch fl.kind {
		case fieldTags:
			fl.tags.SetOptions(fl.options(opts))
		case fieldSelect:
			keep := fl.selected()
			fl.choices = eventTypeChoices(fl.options(opts))
			fl.choice = -1
			f.SetChoice(fl.key, keep)
		}
	}
}

func socialOnly(f *Form) bool {
	return f.Choice("src_type") == schema.SourceSocialPost
}

func submitCmd(run func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := run()
		return formResultMsg{status: status, err: err}
	}
}

// newTheoryForm builds the theory article form.
func newTheoryForm(ctx context.Context, c *catalog.Catalog, opts catalog.Options) *Form {
	platform := selectField("platform", "Platform", false, schema.Platforms)
	platform.showIf = socialOnly
	fields := []*formField{
		selectField("src_type", "Source type", true, schema.TheorySourceTypes),
		platform,
		textField("title", "Title", true),
		urlField("url", "URL", true),
		textField("abstract", "Abstract", true),
		textField("post_content", "Post content", false),
		dateField("published", "Publication date", false),
		selectField("spectrum", "Spectrum", false, schema.SpectrumChoices),
		tagField("authors", "Authors", opts, authorsOf, true),
		tagField("domains", "Domains", opts, domainsOf, true),
		tagField("keywords", "Keywords", opts, keywordsOf, true),
		tagField("entities", "Entities", opts, entitiesOf, false),
	}
	fields[5].showIf = socialOnly
	return newForm("New theory", fields, func(f *Form) tea.Cmd {
		published, _ := f.Date("published")
		d := catalog.TheoryDraft{
			SourceType:  f.Choice("src_type"),
			Platform:    f.Choice("platform"),
			Title:       f.Text("title"),
			Abstract:    f.Text("abstract"),
			PostContent: f.Text("post_content"),
			URL:         f.Text("url"),
			PublishedAt: published,
			Spectrum:    schema.Spectrum(f.Choice("spectrum")),
			Authors:     f.Tags("authors"),
			Domains:     f.Tags("domains"),
			Keywords:    f.Tags("keywords"),
			Entities:    f.Tags("entities"),
		}
		return submitCmd(func() (string, error) {
			t, err := c.SubmitTheory(ctx, d)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved theory %q", t.Title), nil
		})
	})
}

// newReportForm builds the reporting form.
func newReportForm(ctx context.Context, c *catalog.Catalog, opts catalog.Options) *Form {
	platform := selectField("platform", "Platform", false, schema.Platforms)
	platform.showIf = socialOnly
	fields := []*formField{
		selectField("src_type", "Source type", true, schema.ReportingSourceTypes),
		platform,
		textField("headline", "Headline", true),
		urlField("url", "Source link", true),
		dateField("event_date", "Event date", true),
		textField("description", "Description", false),
		selectField("event_type", "Event type", false, eventTypeChoices(opts.EventTypes)),
		selectField("spectrum", "Spectrum", false, schema.SpectrumChoices),
		tagField("authors", "Authors", opts, authorsOf, true),
		tagField("regions", "Regions", opts, regionsOf, true),
		tagField("entities", "Entities", opts, entitiesOf, false),
	}
	fields[6].options = eventTypesOf
	return newForm("New report", fields, func(f *Form) tea.Cmd {
		eventDate, _ := f.Date("event_date")
		d := catalog.ReportDraft{
			SourceType:   f.Choice("src_type"),
			Platform:     f.Choice("platform"),
			Headline:     f.Text("headline"),
			Description:  f.Text("description"),
			URL:          f.Text("url"),
			EventDate:    eventDate,
			Spectrum:     schema.Spectrum(f.Choice("spectrum")),
			EventTypeTag: f.Choice("event_type"),
			Authors:      f.Tags("authors"),
			Regions:      f.Tags("regions"),
			Entities:     f.Tags("entities"),
		}
		return submitCmd(func() (string, error) {
			r, err := c.SubmitReport(ctx, d)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved report %q", r.Headline), nil
		})
	})
}

// newEntityForm builds the entities form, preselecting entityType.
func newEntityForm(ctx context.Context, c *catalog.Catalog, entityType string) *Form {
	fields := []*formField{
		textField("name", "Name", true),
		selectField("entity_type", "Entity type", true, schema.EntityTypes),
		textField("description", "Description", false),
		selectField("spectrum", "Spectrum", false, schema.SpectrumChoices),
	}
	f := newForm("New entity", fields, func(f *Form) tea.Cmd {
		d := catalog.EntityDraft{
			Name:        f.Text("name"),
			Type:        f.Choice("entity_type"),
			Description: f.Text("description"),
			Spectrum:    schema.Spectrum(f.Choice("spectrum")),
		}
		return submitCmd(func() (string, error) {
			e, err := c.SubmitEntity(ctx, d)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved entity %q", e.Name), nil
		})
	})
	f.SetChoice("entity_type", entityType)
	return f
}

// newInstanceForm builds the instances form, preselecting instanceType.
func newInstanceForm(ctx context.Context, c *catalog.Catalog, opts catalog.Options, instanceType string) *Form {
	fields := []*formField{
		selectField("instance_type", "Instance type", true, schema.InstanceTypes),
		textField("headline", "Headline", true),
		textField("post_content", "Post content", true),
		dateField("reported", "Date reported", true),
		urlField("url", "Source link", false),
		selectField("spectrum", "Spectrum", false, schema.SpectrumChoices),
		tagField("locations", "Locations", opts, regionsOf, true),
	}
	f := newForm("New instance", fields, func(f *Form) tea.Cmd {
		reported, _ := f.Date("reported")
		d := catalog.InstanceDraft{
			Type:        f.Choice("instance_type"),
			Headline:    f.Text("headline"),
			PostContent: f.Text("post_content"),
			URL:         f.Text("url"),
			ReportedAt:  reported,
			Spectrum:    schema.Spectrum(f.Choice("spectrum")),
			Locations:   f.Tags("locations"),
		}
		return submitCmd(func() (string, error) {
			in, err := c.SubmitInstance(ctx, d)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved instance %q", in.Headline), nil
		})
	})
	f.SetChoice("instance_type", instanceType)
	return f
}
