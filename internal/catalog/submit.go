package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/tagselect"
)

// ValidationError lists the fields that stop a submission.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

type validator struct {
	err ValidationError
}

func (v *validator) require(field string, ok bool) {
	if !ok {
		v.err.Missing = append(v.err.Missing, field)
	}
}

func (v *validator) text(field, value string) {
	v.require(field, strings.TrimSpace(value) != "")
}

func (v *validator) date(field string, t time.Time) {
	v.require(field, !t.IsZero())
}

// url checks value only when present; emptiness is reported by text.
func (v *validator) url(field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.err.Invalid = append(v.err.Invalid, field)
	}
}

func (v *validator) result() error {
	if len(v.err.Missing) == 0 && len(v.err.Invalid) == 0 {
		return nil
	}
	err := v.err
	return &err
}

// TheoryDraft is the content of the theory entry form.
type TheoryDraft struct {
	SourceType  string
	Platform    string
	Title       string
	Abstract    string
	PostContent string
	URL         string
	PublishedAt time.Time
	Spectrum    schema.Spectrum
	Authors     []tagselect.Option
	Domains     []tagselect.Option
	Keywords    []tagselect.Option
	Entities    []tagselect.Option
}

// ReportDraft is the content of the reporting form.
type ReportDraft struct {
	SourceType   string
	Platform     string
	Headline     string
	Description  string
	URL          string
	EventDate    time.Time
	Spectrum     schema.Spectrum
	EventTypeTag string
	Authors      []tagselect.Option
	Regions      []tagselect.Option
	Entities     []tagselect.Option
}

// EntityDraft is the content of the entities form.
type EntityDraft struct {
	Name        string
	Type        string
	Description string
	Spectrum    schema.Spectrum
}

// InstanceDraft is the content of the instances form.
type InstanceDraft struct {
	Type        string
	Headline    string
	PostContent string
	URL         string
	ReportedAt  time.Time
	Spectrum    schema.Spectrum
	Locations   []tagselect.Option
}

func (c *Catalog) id() string {
	if c.newID != nil {
		return c.newID()
	}
	return uuid.NewString()
}

func values(opts []tagselect.Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

// platformFor keeps the platform only for social media posts.
func platformFor(sourceType, platform string) string {
	if sourceType != schema.SourceSocialPost {
		return ""
	}
	return platform
}

// SubmitTheory validates d and appends it to THEORY.
func (c *Catalog) SubmitTheory(ctx context.Context, d TheoryDraft) (schema.Theory, error) {
	var v validator
	v.text("source type", d.SourceType)
	v.text("title", d.Title)
	v.text("url", d.URL)
	v.text("abstract", d.Abstract)
	v.url("url", d.URL)
	if err := v.result(); err != nil {
		return schema.Theory{}, err
	}

	t := schema.Theory{
		ID:          c.id(),
		Title:       strings.TrimSpace(d.Title),
		Abstract:    strings.TrimSpace(d.Abstract),
		Authors:     values(d.Authors),
		PublishedAt: d.PublishedAt,
		SourceType:  d.SourceType,
		Platform:    platformFor(d.SourceType, d.Platform),
		Domains:     values(d.Domains),
		Keywords:    values(d.Keywords),
		Spectrum:    d.Spectrum,
		Category:    schema.CategoryTheory,
		Entities:    values(d.Entities),
		URL:         strings.TrimSpace(d.URL),
		PostContent: strings.TrimSpace(d.PostContent),
	}
	if err := c.Store.Append(ctx, schema.TableTheory, t.Row()); err != nil {
		return schema.Theory{}, fmt.Errorf("submit theory: %w", err)
	}
	c.Log.Info("theory submitted", zap.String("id", t.ID))
	c.persistNew(ctx, map[string][]tagselect.Option{
		schema.TableAuthors:  d.Authors,
		schema.TableDomains:  d.Domains,
		schema.TableKeywords: d.Keywords,
	})
	return t, nil
}

// SubmitReport validates d and appends it to REPORTING, linking the chosen
// event type in REPORTINGEVENTTYPE.
func (c *Catalog) SubmitReport(ctx context.Context, d ReportDraft) (schema.Report, error) {
	var v validator
	v.text("source type", d.SourceType)
	v.text("headline", d.Headline)
	v.text("url", d.URL)
	v.date("event date", d.EventDate)
	v.url("url", d.URL)
	if err := v.result(); err != nil {
		return schema.Report{}, err
	}

	r := schema.Report{
		ID:           c.id(),
		Headline:     strings.TrimSpace(d.Headline),
		Description:  strings.TrimSpace(d.Description),
		EventDate:    d.EventDate,
		ReportedAt:   dateOnly(c.clock()),
		SourceType:   d.SourceType,
		Platform:     platformFor(d.SourceType, d.Platform),
		Spectrum:     d.Spectrum,
		Category:     schema.CategoryReporting,
		Entities:     values(d.Entities),
		EventTypeTag: d.EventTypeTag,
		Regions:      values(d.Regions),
		URL:          strings.TrimSpace(d.URL),
		Authors:      values(d.Authors),
	}
	if err := c.Store.Append(ctx, schema.TableReporting, r.Row()); err != nil {
		return schema.Report{}, fmt.Errorf("submit report: %w", err)
	}
	if r.EventTypeTag != "" {
		link := schema.ReportEventType{ReportID: r.ID, TagID: r.EventTypeTag}
		if err := c.Store.Append(ctx, schema.TableReportingEventType, link.Row()); err != nil {
			return r, fmt.Errorf("link event type: %w", err)
		}
	}
	c.Log.Info("report submitted", zap.String("id", r.ID))
	c.persistNew(ctx, map[string][]tagselect.Option{
		schema.TableAuthors: d.Authors,
		schema.TableRegions: d.Regions,
	})
	return r, nil
}

// SubmitEntity validates d and appends it to ENTITIES.
func (c *Catalog) SubmitEntity(ctx context.Context, d EntityDraft) (schema.Entity, error) {
	var v validator
	v.text("name", d.Name)
	v.text("entity type", d.Type)
	if err := v.result(); err != nil {
		return schema.Entity{}, err
	}

	e := schema.Entity{
		ID:          c.id(),
		Name:        strings.TrimSpace(d.Name),
		Type:        d.Type,
		Description: strings.TrimSpace(d.Description),
		Spectrum:    d.Spectrum,
		CreatedAt:   c.clock(),
	}
	if err := c.Store.Append(ctx, schema.TableEntities, e.Row()); err != nil {
		return schema.Entity{}, fmt.Errorf("submit entity: %w", err)
	}
	c.Log.Info("entity submitted", zap.String("id", e.ID), zap.String("type", e.Type))
	return e, nil
}

// SubmitInstance validates d and appends it to INSTANCES.
func (c *Catalog) SubmitInstance(ctx context.Context, d InstanceDraft) (schema.Instance, error) {
	var v validator
	v.text("instance type", d.Type)
	v.text("headline", d.Headline)
	v.text("post content", d.PostContent)
	v.date("date reported", d.ReportedAt)
	v.url("url", d.URL)
	if err := v.result(); err != nil {
		return schema.Instance{}, err
	}

	in := schema.Instance{
		ID:          c.id(),
		Type:        d.Type,
		Headline:    strings.TrimSpace(d.Headline),
		PostContent: strings.TrimSpace(d.PostContent),
		Locations:   values(d.Locations),
		ReportedAt:  d.ReportedAt,
		URL:         strings.TrimSpace(d.URL),
		Spectrum:    d.Spectrum,
	}
	if err := c.Store.Append(ctx, schema.TableInstances, in.Row()); err != nil {
		return schema.Instance{}, fmt.Errorf("submit instance: %w", err)
	}
	c.Log.Info("instance submitted", zap.String("id", in.ID), zap.String("type", in.Type))
	c.persistNew(ctx, map[string][]tagselect.Option{
		schema.TableRegions: d.Locations,
	})
	return in, nil
}

// persistNew appends chosen options missing from their lookup table. The
// entry is already stored, so failures are only logged.
func (c *Catalog) persistNew(ctx context.Context, chosen map[string][]tagselect.Option) {
	if !c.PersistNewOptions {
		return
	}
	for table, opts := range chosen {
		if len(opts) == 0 {
			continue
		}
		added, err := c.addLookupItems(ctx, table, opts)
		if err != nil {
			c.Log.Warn("persist new options", zap.String("table", table), zap.Error(err))
			continue
		}
		if added > 0 {
			c.Log.Info("new options stored", zap.String("table", table), zap.Int("count", added))
		}
	}
}

func (c *Catalog) addLookupItems(ctx context.Context, table string, opts []tagselect.Option) (int, error) {
	items, err := c.lookupItems(ctx, table)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(items)*2)
	for _, it := range items {
		seen[it.ID] = true
		seen[strings.ToLower(it.Name)] = true
	}
	added := 0
	for _, o := range opts {
		if seen[o.Value] || seen[strings.ToLower(o.Label)] {
			continue
		}
		if err := c.Store.Append(ctx, table, schema.LookupItem{ID: o.Value, Name: o.Label}.Row()); err != nil {
			return added, err
		}
		seen[o.Value] = true
		seen[strings.ToLower(o.Label)] = true
		added++
	}
	return added, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
