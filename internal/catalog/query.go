package catalog

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jask/sheetdesk/internal/schema"
)

// Card is one entity with the entries that mention it.
type Card struct {
	Entity   schema.Entity
	Theories []schema.Theory
	Reports  []schema.Report
}

// WikiGroup holds the cards of one entity type.
type WikiGroup struct {
	Type  string
	Label string
	Cards []Card
}

// Wiki is the content of the wiki page.
type Wiki struct {
	Groups   []WikiGroup
	Theories []schema.Theory
	Reports  []schema.Report
}

// Group returns the group for entity type t.
func (w Wiki) Group(t string) WikiGroup {
	for _, g := range w.Groups {
		if g.Type == t {
			return g
		}
	}
	return WikiGroup{Type: t, Label: schema.ChoiceLabel(schema.EntityTypes, t)}
}

// Search returns the cards of type t whose name contains query.
func (w Wiki) Search(t, query string) []Card {
	cards := w.Group(t).Cards
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cards
	}
	var out []Card
	for _, c := range cards {
		if strings.Contains(strings.ToLower(c.Entity.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// Wiki loads entities, theory and reporting concurrently and groups the
// entities by type.
func (c *Catalog) Wiki(ctx context.Context) (Wiki, error) {
	var (
		ents     []schema.Entity
		theories []schema.Theory
		reports  []schema.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ents, err = c.Entities(gctx)
		return err
	})
	g.Go(func() (err error) {
		theories, err = c.theories(gctx)
		if IsUnknownTable(err) {
			return nil
		}
		return err
	})
	g.Go(func() (err error) {
		reports, err = c.reports(gctx)
		if IsUnknownTable(err) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Wiki{}, err
	}

	w := Wiki{Theories: theories, Reports: reports}
	for _, et := range schema.EntityTypes {
		w.Groups = append(w.Groups, WikiGroup{Type: et.Value, Label: et.Label})
	}
	for _, e := range ents {
		card := Card{Entity: e}
		for _, t := range theories {
			if mentions(t.Entities, e) {
				card.Theories = append(card.Theories, t)
			}
		}
		for _, r := range reports {
			if mentions(r.Entities, e) {
				card.Reports = append(card.Reports, r)
			}
		}
		for i := range w.Groups {
			if strings.EqualFold(w.Groups[i].Type, e.Type) {
				w.Groups[i].Cards = append(w.Groups[i].Cards, card)
				break
			}
		}
	}
	return w, nil
}

// mentions matches references by entity id or name, ignoring case.
func mentions(refs []string, e schema.Entity) bool {
	for _, ref := range refs {
		if (e.ID != "" && strings.EqualFold(ref, e.ID)) || strings.EqualFold(ref, e.Name) {
			return true
		}
	}
	return false
}

// Reports lists REPORTING rows matching query over headline, author,
// location, entity, description and source type.
func (c *Catalog) Reports(ctx context.Context, query string) ([]schema.Report, error) {
	reports, err := c.reports(ctx)
	if err != nil {
		return nil, err
	}
	return FilterReports(reports, query), nil
}

// FilterReports applies the reporting page search.
func FilterReports(reports []schema.Report, query string) []schema.Report {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return reports
	}
	var out []schema.Report
	for _, r := range reports {
		fields := []string{
			r.Headline,
			schema.JoinList(r.Authors),
			schema.JoinList(r.Regions),
			schema.JoinList(r.Entities),
			r.Description,
			r.SourceType,
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Instances lists INSTANCES rows of the given type.
func (c *Catalog) Instances(ctx context.Context, instanceType string) ([]schema.Instance, error) {
	all, err := c.instances(ctx)
	if err != nil {
		return nil, err
	}
	var out []schema.Instance
	for _, in := range all {
		if in.Type == instanceType {
			out = append(out, in)
		}
	}
	return out, nil
}

// Event is one dated entry on the timeline.
type Event struct {
	Date     time.Time
	Kind     string
	Title    string
	Detail   string
	Spectrum schema.Spectrum
	URL      string
}

// Month groups timeline events of one calendar month.
type Month struct {
	Start  time.Time
	Events []Event
}

// Label renders the month heading.
func (m Month) Label() string {
	if m.Start.IsZero() {
		return "Undated"
	}
	return m.Start.Format("January 2006")
}

// Timeline merges reports and instances, newest first, grouped by month.
// Entries without a date are grouped last.
func (c *Catalog) Timeline(ctx context.Context) ([]Month, error) {
	var (
		reports   []schema.Report
		instances []schema.Instance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		reports, err = c.reports(gctx)
		return err
	})
	g.Go(func() (err error) {
		instances, err = c.instances(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(reports)+len(instances))
	for _, r := range reports {
		events = append(events, Event{
			Date:     r.EventDate,
			Kind:     "report",
			Title:    r.Headline,
			Detail:   r.EventTypeTag,
			Spectrum: r.Spectrum,
			URL:      r.URL,
		})
	}
	for _, in := range instances {
		events = append(events, Event{
			Date:     in.ReportedAt,
			Kind:     "instance",
			Title:    in.Headline,
			Detail:   schema.ChoiceLabel(schema.InstanceTypes, in.Type),
			Spectrum: in.Spectrum,
			URL:      in.URL,
		})
	}
	return GroupByMonth(events), nil
}

// GroupByMonth orders events newest first and groups them by month.
func GroupByMonth(events []Event) []Month {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.After(b)
	})

	var out []Month
	for _, ev := range sorted {
		start := time.Time{}
		if !ev.Date.IsZero() {
			start = time.Date(ev.Date.Year(), ev.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		}
		if n := len(out); n > 0 && out[n-1].Start.Equal(start) {
			out[n-1].Events = append(out[n-1].Events, ev)
			continue
		}
		out = append(out, Month{Start: start, Events: []Event{ev}})
	}
	return out
}
