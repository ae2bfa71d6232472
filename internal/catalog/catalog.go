// Package catalog reads and submits entries through a sheets.Store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/sheets"
	"github.com/jask/sheetdesk/internal/tagselect"
)

// Catalog is the data service used by the pages and forms.
type Catalog struct {
	Store sheets.Store
	Log   *zap.Logger

	// PersistNewOptions appends ad-hoc tags to their lookup tables on submit.
	PersistNewOptions bool

	now   func() time.Time
	newID func() string
}

func New(store sheets.Store, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{Store: store, Log: log}
}

func (c *Catalog) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().UTC()
}

// Options holds the option sets offered by the tag fields of the forms.
type Options struct {
	Entities   []tagselect.Option
	Keywords   []tagselect.Option
	Domains    []tagselect.Option
	Authors    []tagselect.Option
	Regions    []tagselect.Option
	EventTypes []tagselect.Option
}

// LoadOptions fetches every option set concurrently. A set that cannot be
// read is left empty and reported in the returned warnings.
func (c *Catalog) LoadOptions(ctx context.Context) (Options, []error) {
	var (
		opts     Options
		warnings = make([]error, 6)
	)
	g, gctx := errgroup.WithContext(ctx)
	lookup := func(i int, table string, dst *[]tagselect.Option) {
		g.Go(func() error {
			items, err := c.lookupItems(gctx, table)
			if err != nil {
				warnings[i] = err
				return nil
			}
			*dst = lookupOptions(items)
			return nil
		})
	}
	lookup(0, schema.TableKeywords, &opts.Keywords)
	lookup(1, schema.TableDomains, &opts.Domains)
	lookup(2, schema.TableAuthors, &opts.Authors)
	lookup(3, schema.TableRegions, &opts.Regions)
	g.Go(func() error {
		ents, err := c.Entities(gctx)
		if err != nil {
			warnings[4] = err
			return nil
		}
		opts.Entities = entityOptions(ents)
		return nil
	})
	g.Go(func() error {
		tags, err := c.EventTypes(gctx)
		if err != nil {
			warnings[5] = err
			return nil
		}
		opts.EventTypes = eventTypeOptions(tags)
		return nil
	})
	_ = g.Wait()

	var out []error
	for _, w := range warnings {
		if w != nil {
			c.Log.Warn("option set unavailable", zap.Error(w))
			out = append(out, w)
		}
	}
	return opts, out
}

func (c *Catalog) lookupItems(ctx context.Context, table string) ([]schema.LookupItem, error) {
	return readAll[schema.LookupItem](ctx, c.Store, table)
}

// Entities lists ENTITIES in sheet order.
func (c *Catalog) Entities(ctx context.Context) ([]schema.Entity, error) {
	return readAll[schema.Entity](ctx, c.Store, schema.TableEntities)
}

// EventTypes lists EVENTTYPETAGS in sheet order.
func (c *Catalog) EventTypes(ctx context.Context) ([]schema.EventTypeTag, error) {
	return readAll[schema.EventTypeTag](ctx, c.Store, schema.TableEventTypeTags)
}

func (c *Catalog) theories(ctx context.Context) ([]schema.Theory, error) {
	return readAll[schema.Theory](ctx, c.Store, schema.TableTheory)
}

func (c *Catalog) reports(ctx context.Context) ([]schema.Report, error) {
	return readAll[schema.Report](ctx, c.Store, schema.TableReporting)
}

func (c *Catalog) instances(ctx context.Context) ([]schema.Instance, error) {
	return readAll[schema.Instance](ctx, c.Store, schema.TableInstances)
}

func readAll[T any](ctx context.Context, s sheets.Store, table string) ([]T, error) {
	tbl, err := s.Read(ctx, table)
	if err != nil {
		return nil, err
	}
	out, err := schema.DecodeAll[T](tbl.Records())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table, err)
	}
	return out, nil
}

func lookupOptions(items []schema.LookupItem) []tagselect.Option {
	out := make([]tagselect.Option, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		value := it.ID
		if value == "" {
			value = tagselect.Slug(it.Name)
		}
		out = append(out, tagselect.Option{Value: value, Label: it.Name})
	}
	return out
}

func entityOptions(ents []schema.Entity) []tagselect.Option {
	out := make([]tagselect.Option, 0, len(ents))
	for _, e := range ents {
		if e.Name == "" {
			continue
		}
		value := e.ID
		if value == "" {
			value = tagselect.Slug(e.Name)
		}
		out = append(out, tagselect.Option{Value: value, Label: e.Name})
	}
	return out
}

func eventTypeOptions(tags []schema.EventTypeTag) []tagselect.Option {
	out := make([]tagselect.Option, 0, len(tags))
	for _, t := range tags {
		if t.Name == "" {
			continue
		}
		out = append(out, tagselect.Option{Value: t.ID, Label: t.Name})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}

// IsUnknownTable reports whether err means the sheet does not exist yet.
func IsUnknownTable(err error) bool {
	return errors.Is(err, sheets.ErrUnknownTable)
}
