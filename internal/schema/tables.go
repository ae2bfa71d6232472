// Package schema defines the spreadsheet tables sheetdesk reads and appends
// to, the typed record for each table and the mapping in both directions.
package schema

import "strings"

// Table names are the spreadsheet tab names.
const (
	TableEntities           = "ENTITIES"
	TableTheory             = "THEORY"
	TableReporting          = "REPORTING"
	TableEventTypeTags      = "EVENTTYPETAGS"
	TableReportingEventType = "REPORTINGEVENTTYPE"
	TableInstances          = "INSTANCES"
	TableKeywords           = "KEYWORDS"
	TableDomains            = "DOMAINS"
	TableAuthors            = "AUTHORS"
	TableRegions            = "REGIONS"
)

var headers = map[string][]string{
	TableEntities: {
		"entity_id", "name", "entity_type", "description", "spectrum", "created_at",
	},
	TableTheory: {
		"theory_id", "title", "description", "author", "publication_date",
		"src_type", "platform", "domain", "keyword_tags", "spectrum",
		"category", "entity_id", "references", "post_content",
	},
	TableReporting: {
		"report_id", "title", "description", "event_date", "reporting_date",
		"src_type", "platform", "spectrum", "category", "entity_id",
		"event_type_tag", "location", "source_link", "author",
	},
	TableEventTypeTags: {
		"tag_id", "tag_name", "tag_category", "entity_type", "parent_tag", "description",
	},
	TableReportingEventType: {
		"report_id", "tag_id",
	},
	TableInstances: {
		"instance_id", "instance_type", "headline", "post_content", "location",
		"date_reported", "source_link", "spectrum",
	},
	TableKeywords: lookupHeaders,
	TableDomains:  lookupHeaders,
	TableAuthors:  lookupHeaders,
	TableRegions:  lookupHeaders,
}

var lookupHeaders = []string{"id", "name"}

// tableOrder lists tables in the order they are initialised.
var tableOrder = []string{
	TableEntities, TableTheory, TableReporting, TableEventTypeTags,
	TableReportingEventType, TableInstances,
	TableKeywords, TableDomains, TableAuthors, TableRegions,
}

// Tables returns every known table name.
func Tables() []string {
	return append([]string(nil), tableOrder...)
}

// Headers returns the column names of table, or nil for unknown tables.
// Table names are matched case-insensitively.
func Headers(table string) []string {
	h, ok := headers[Canonical(table)]
	if !ok {
		return nil
	}
	return append([]string(nil), h...)
}

// Known reports whether table is part of the schema.
func Known(table string) bool {
	_, ok := headers[Canonical(table)]
	return ok
}

// Canonical normalises a table name to its spreadsheet tab name.
func Canonical(table string) string {
	return strings.ToUpper(strings.TrimSpace(table))
}

// Target returns a pointer to a zero record of table's struct type.
func Target(table string) (any, bool) {
	switch Canonical(table) {
	case TableEntities:
		return &Entity{}, true
	case TableTheory:
		return &Theory{}, true
	case TableReporting:
		return &Report{}, true
	case TableEventTypeTags:
		return &EventTypeTag{}, true
	case TableReportingEventType:
		return &ReportEventType{}, true
	case TableInstances:
		return &Instance{}, true
	case TableKeywords, TableDomains, TableAuthors, TableRegions:
		return &LookupItem{}, true
	}
	return nil, false
}

// IDColumn returns the column holding a table's row identifier, or "" when
// rows have none.
func IDColumn(table string) string {
	switch t := Canonical(table); t {
	case TableReportingEventType:
		return ""
	default:
		if h := headers[t]; len(h) > 0 {
			return h[0]
		}
	}
	return ""
}
