package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Record is one spreadsheet row keyed by column name.
type Record map[string]string

// Row is one spreadsheet row in header order.
type Row []string

// DateLayout is the cell format of date columns.
const DateLayout = "2006-01-02"

const listSeparator = ","

var (
	timeType     = reflect.TypeOf(time.Time{})
	spectrumType = reflect.TypeOf(SpectrumNone)
	listType     = reflect.TypeOf([]string(nil))

	dateLayouts = []string{DateLayout, time.RFC3339, "2006/01/02"}
)

// Decode maps rec onto out, which must point at one of the record structs.
// Columns the struct does not know are ignored; columns missing from rec
// leave the zero value.
func Decode(rec Record, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "sheet",
		Result:     out,
		DecodeHook: mapstructure.DecodeHookFuncType(cellHook),
	})
	if err != nil {
		return fmt.Errorf("schema decoder: %w", err)
	}
	if err := dec.Decode(map[string]string(rec)); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// DecodeAll maps every record, reporting the first failing row by index.
func DecodeAll[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for i, rec := range recs {
		var v T
		if err := Decode(rec, &v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func cellHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	switch to {
	case timeType:
		return ParseDate(raw)
	case spectrumType:
		return Spectrum(strings.ToUpper(raw)), nil
	case listType:
		return SplitList(raw), nil
	}
	return data, nil
}

// ParseDate accepts the cell formats seen in the sheets. An empty cell is
// the zero time.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// FormatDate renders a date cell; the zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// SplitList parses a multi-valued cell.
func SplitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, listSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList renders a multi-valued cell.
func JoinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// rowFor orders cells by the table's headers; absent columns are empty.
func rowFor(table string, cells Record) Row {
	h := headers[table]
	row := make(Row, len(h))
	for i, col := range h {
		row[i] = cells[col]
	}
	return row
}

// Row renders the entity in ENTITIES column order.
func (e Entity) Row() Row {
	created := ""
	if !e.CreatedAt.IsZero() {
		created = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return rowFor(TableEntities, Record{
		"entity_id":   e.ID,
		"name":        e.Name,
		"entity_type": e.Type,
		"description": e.Description,
		"spectrum":    string(e.Spectrum),
		"created_at":  created,
	})
}

// Row renders the article in THEORY column order.
func (t Theory) Row() Row {
	return rowFor(TableTheory, Record{
		"theory_id":        t.ID,
		"title":            t.Title,
		"description":      t.Abstract,
		"author":           JoinList(t.Authors),
		"publication_date": FormatDate(t.PublishedAt),
		"src_type":         t.SourceType,
		"platform":         t.Platform,
		"domain":           JoinList(t.Domains),
		"keyword_tags":     JoinList(t.Keywords),
		"spectrum":         string(t.Spectrum),
		"category":         t.Category,
		"entity_id":        JoinList(t.Entities),
		"references":       t.URL,
		"post_content":     t.PostContent,
	})
}

// Row renders the report in REPORTING column order.
func (r Report) Row() Row {
	return rowFor(TableReporting, Record{
		"report_id":      r.ID,
		"title":          r.Headline,
		"description":    r.Description,
		"event_date":     FormatDate(r.EventDate),
		"reporting_date": FormatDate(r.ReportedAt),
		"src_type":       r.SourceType,
		"platform":       r.Platform,
		"spectrum":       string(r.Spectrum),
		"category":       r.Category,
		"entity_id":      JoinList(r.Entities),
		"event_type_tag": r.EventTypeTag,
		"location":       JoinList(r.Regions),
		"source_link":    r.URL,
		"author":         JoinList(r.Authors),
	})
}

// Row renders the tag in EVENTTYPETAGS column order.
func (t EventTypeTag) Row() Row {
	return rowFor(TableEventTypeTags, Record{
		"tag_id":       t.ID,
		"tag_name":     t.Name,
		"tag_category": t.Category,
		"entity_type":  t.EntityType,
		"parent_tag":   t.Parent,
		"description":  t.Description,
	})
}

// Row renders the link in REPORTINGEVENTTYPE column order.
func (l ReportEventType) Row() Row {
	return rowFor(TableReportingEventType, Record{
		"report_id": l.ReportID,
		"tag_id":    l.TagID,
	})
}

// Row renders the instance in INSTANCES column order.
func (i Instance) Row() Row {
	return rowFor(TableInstances, Record{
		"instance_id":   i.ID,
		"instance_type": i.Type,
		"headline":      i.Headline,
		"post_content":  i.PostContent,
		"location":      JoinList(i.Locations),
		"date_reported": FormatDate(i.ReportedAt),
		"source_link":   i.URL,
		"spectrum":      string(i.Spectrum),
	})
}

// Row renders the item for any of the lookup tables.
func (l LookupItem) Row() Row {
	return Row{l.ID, l.Name}
}
