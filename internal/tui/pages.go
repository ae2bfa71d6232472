package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sheetdesk/internal/catalog"
	"github.com/jask/sheetdesk/internal/schema"
	"github.com/jask/sheetdesk/internal/tagselect"
)

// Page is one of the top-level views selected from the header.
type Page interface {
	ID() string
	Title() string
	Scope() string
	Load(ctx context.Context, c *catalog.Catalog) tea.Cmd
	Loaded(data any, err error)
	HandleKey(m *Model, msg tea.KeyMsg) (bool, tea.Cmd)
	View(m *Model, width, height int) string
}

// searchable pages filter their rows by a free-text query.
type searchable interface {
	SetQuery(q string)
	Query() string
}

func loadCmd(id string, load func() (any, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := load()
		return pageLoadedMsg{ID: id, Data: data, Err: err}
	}
}

// labels renders stored references with the option labels they point at.
func labels(opts []tagselect.Option, refs []string) string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		label := r
		for _, o := range opts {
			if o.Value == r {
				label = o.Label
				break
			}
		}
		out = append(out, label)
	}
	return strings.Join(out, ", ")
}

func loadState(err error, loading bool) string {
	switch {
	case loading:
		return mutedStyle.Render("Loading...")
	case err != nil:
		return errorStyle.Render("Could not load: " + err.Error())
	}
	return ""
}

func cycleIndex(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return (i + delta + n) % n
}

func typeTabs(choices []schema.Choice, active int) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		if i == active {
			parts[i] = activeTabStyle.Render(c.Label)
		} else {
			parts[i] = inactiveTabStyle.Render(c.Label)
		}
	}
	return strings.Join(parts, " ")
}

func searchLine(q string) string {
	if q == "" {
		return ""
	}
	return mutedStyle.Render("filter: ") + q
}

// WikiPage lists entities of one type as cards or as a table.
type WikiPage struct {
	data      catalog.Wiki
	err       error
	loading   bool
	typeIdx   int
	tableView bool
	query     string
	cursor    int
	grid      table
}

func NewWikiPage() *WikiPage {
	return &WikiPage{
		loading: true,
		grid: table{columns: []column{
			{title: "Name", width: 22},
			{title: "Spectrum", width: 9},
			{title: "Theories", width: 8},
			{title: "Reports", width: 8},
			{title: "Description"},
		}},
	}
}

func (p *WikiPage) ID() string        { return "wiki" }
func (p *WikiPage) Title() string     { return "Wiki" }
func (p *WikiPage) Scope() string     { return "page:wiki" }
func (p *WikiPage) Query() string     { return p.query }
func (p *WikiPage) SetQuery(q string) { p.query = q; p.cursor = 0; p.grid.cursor = 0 }

// EntityType is the entity type currently shown.
func (p *WikiPage) EntityType() string { return schema.EntityTypes[p.typeIdx].Value }

func (p *WikiPage) setEntityType(t string) {
	for i, c := range schema.EntityTypes {
		if c.Value == t {
			p.typeIdx = i
		}
	}
}

func (p *WikiPage) Load(ctx context.Context, c *catalog.Catalog) tea.Cmd {
	p.loading = true
	return loadCmd(p.ID(), func() (any, error) { return c.Wiki(ctx) })
}

func (p *WikiPage) Loaded(data any, err error) {
	p.loading = false
	p.err = err
	if w, ok := data.(catalog.Wiki); ok && err == nil {
		p.data = w
	}
}

func (p *WikiPage) cards() []catalog.Card {
	return p.data.Search(p.EntityType(), p.query)
}

func (p *WikiPage) HandleKey(m *Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	scope := p.Scope()
	switch {
	case m.keys.IsAction(msg, actionPrevType, scope):
		p.typeIdx = cycleIndex(p.typeIdx, -1, len(schema.EntityTypes))
		p.cursor, p.grid.cursor = 0, 0
	case m.keys.IsAction(msg, actionNextType, scope):
		p.typeIdx = cycleIndex(p.typeIdx, 1, len(schema.EntityTypes))
		p.cursor, p.grid.cursor = 0, 0
	case m.keys.IsAction(msg, actionToggleView, scope):
		p.tableView = !p.tableView
	case m.keys.IsAction(msg, actionNewEntry, scope):
		return true, m.openForm(newEntityForm(m.ctx, m.catalog, p.EntityType()))
	case m.keys.IsAction(msg, actionNewTheory, scope):
		return true, m.openForm(newTheoryForm(m.ctx, m.catalog, m.options))
	case msg.String() == "up" || msg.String() == "k":
		p.cursor = max(0, p.cursor-1)
		p.grid.moveCursor(-1)
	case msg.String() == "down" || msg.String() == "j":
		p.cursor = min(max(0, len(p.cards())-1), p.cursor+1)
		p.grid.moveCursor(1)
	default:
		return false, nil
	}
	return true, nil
}

func (p *WikiPage) View(m *Model, width, height int) string {
	head := []string{typeTabs(schema.EntityTypes, p.typeIdx)}
	if q := searchLine(p.query); q != "" {
		head = append(head, q)
	}
	head = append(head, "")
	if s := loadState(p.err, p.loading); s != "" {
		return strings.Join(append(head, s), "\n")
	}
	cards := p.cards()
	bodyHeight := max(1, height-len(head))
	var body string
	if p.tableView {
		rows := make([][]string, 0, len(cards))
		for _, c := range cards {
			rows = append(rows, []string{
				c.Entity.Name,
				string(c.Entity.Spectrum),
				fmt.Sprint(len(c.Theories)),
				fmt.Sprint(len(c.Reports)),
				c.Entity.Description,
			})
		}
		p.grid.setRows(rows)
		body = p.grid.render(width, bodyHeight)
	} else {
		body = p.renderCards(m, cards, width, bodyHeight)
	}
	return strings.Join(head, "\n") + "\n" + body
}

func (p *WikiPage) renderCards(m *Model, cards []catalog.Card, width, height int) string {
	if len(cards) == 0 {
		return mutedStyle.Render("No " + strings.ToLower(schema.EntityTypes[p.typeIdx].Label) + " yet. Press n to add one.")
	}
	p.cursor = min(p.cursor, len(cards)-1)
	var lines []string
	for i := p.cursor; i < len(cards) && len(lines) < height; i++ {
		card := renderCard(m, cards[i], width-2, i == p.cursor)
		lines = append(lines, strings.Split(card, "\n")...)
	}
	return strings.Join(lines, "\n")
}

func renderCard(m *Model, c catalog.Card, width int, selected bool) string {
	e := c.Entity
	title := titleStyle.Render(e.Name)
	if badge := spectrumBadge(string(e.Spectrum)); badge != "" {
		title += " " + badge
	}
	lines := []string{title}
	if e.Description != "" {
		lines = append(lines, e.Description)
	}
	for _, t := range c.Theories {
		lines = append(lines, labelStyle.Render("theory  ")+t.Title+mutedStyle.Render("  "+labels(m.options.Keywords, t.Keywords)))
	}
	for _, r := range c.Reports {
		lines = append(lines, labelStyle.Render("report  ")+m.formatDate(r.EventDate)+"  "+r.Headline)
	}
	if len(c.Theories)+len(c.Reports) == 0 {
		lines = append(lines, mutedStyle.Render("No entries mention this entity."))
	}
	style := cardStyle.Width(max(10, width-2))
	if selected {
		style = style.BorderForeground(colorBorderFocused)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// ReportingPage lists reporting events with a detail pane for the
// highlighted one.
type ReportingPage struct {
	reports []schema.Report
	err     error
	loading bool
	query   string
	grid    table
}

func NewReportingPage() *ReportingPage {
	return &ReportingPage{
		loading: true,
		grid: table{columns: []column{
			{title: "Event date", width: 10},
			{title: "Headline"},
			{title: "Source", width: 18},
			{title: "Regions", width: 16},
			{title: "Spectrum", width: 8},
		}},
	}
}

func (p *ReportingPage) ID() string    { return "reporting" }
func (p *ReportingPage) Title() string { return "Reporting" }
func (p *ReportingPage) Scope() string { return "page:reporting" }
func (p *ReportingPage) Query() string { return p.query }
func (p *ReportingPage) SetQuery(q string) {
	p.query = q
	p.grid.cursor = 0
}

func (p *ReportingPage) Load(ctx context.Context, c *catalog.Catalog) tea.Cmd {
	p.loading = true
	return loadCmd(p.ID(), func() (any, error) { return c.Reports(ctx, "") })
}

func (p *ReportingPage) Loaded(data any, err error) {
	p.loading = false
	p.err = err
	if rs, ok := data.([]schema.Report); ok && err == nil {
		p.reports = rs
	}
}

func (p *ReportingPage) visible() []schema.Report {
	return catalog.FilterReports(p.reports, p.query)
}

func (p *ReportingPage) HandleKey(m *Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case m.keys.IsAction(msg, actionNewEntry, p.Scope()):
		return true, m.openForm(newReportForm(m.ctx, m.catalog, m.options))
	case msg.String() == "up" || msg.String() == "k":
		p.grid.moveCursor(-1)
	case msg.String() == "down" || msg.String() == "j":
		p.grid.moveCursor(1)
	default:
		return false, nil
	}
	return true, nil
}

func (p *ReportingPage) View(m *Model, width, height int) string {
	var head []string
	if q := searchLine(p.query); q != "" {
		head = append(head, q, "")
	}
	if s := loadState(p.err, p.loading); s != "" {
		return strings.Join(append(head, s), "\n")
	}
	reports := p.visible()
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			m.formatDate(r.EventDate),
			r.Headline,
			schema.ChoiceLabel(schema.ReportingSourceTypes, r.SourceType),
			labels(m.options.Regions, r.Regions),
			string(r.Spectrum),
		})
	}
	p.grid.columns[0].width = max(len(p.grid.columns[0].title), m.dateWidth())
	p.grid.setRows(rows)

	detailHeight := 0
	var detail string
	if len(reports) > 0 {
		detail = renderReportDetail(m, reports[p.grid.cursor], width)
		detailHeight = lipgloss.Height(detail) + 1
	}
	tableHeight := max(3, height-len(head)-detailHeight)
	parts := append(head, p.grid.render(width, tableHeight))
	if detail != "" {
		parts = append(parts, "", detail)
	}
	return strings.Join(parts, "\n")
}

func renderReportDetail(m *Model, r schema.Report, width int) string {
	lines := []string{titleStyle.Render(r.Headline)}
	meta := []string{}
	if r.EventTypeTag != "" {
		meta = append(meta, labels(m.options.EventTypes, []string{r.EventTypeTag}))
	}
	if r.Platform != "" {
		meta = append(meta, schema.ChoiceLabel(schema.Platforms, r.Platform))
	}
	if len(r.Authors) > 0 {
		meta = append(meta, "by "+labels(m.options.Authors, r.Authors))
	}
	if len(meta) > 0 {
		lines = append(lines, mutedStyle.Render(strings.Join(meta, " · ")))
	}
	if r.Description != "" {
		lines = append(lines, r.Description)
	}
	if len(r.Entities) > 0 {
		lines = append(lines, labelStyle.Render("Entities ")+labels(m.options.Entities, r.Entities))
	}
	if r.URL != "" {
		lines = append(lines, mutedStyle.Render(r.URL))
	}
	return lipgloss.NewStyle().Width(max(10, width)).Render(strings.Join(lines, "\n"))
}

// InstancesPage lists the instances of one type.
type InstancesPage struct {
	instances []schema.Instance
	err       error
	loading   bool
	typeIdx   int
	grid      table
}

func NewInstancesPage() *InstancesPage {
	return &InstancesPage{
		loading: true,
		grid: table{columns: []column{
			{title: "Reported", width: 10},
			{title: "Headline"},
			{title: "Locations", width: 18},
			{title: "Spectrum", width: 8},
		}},
	}
}

func (p *InstancesPage) ID() string    { return "instances" }
func (p *InstancesPage) Title() string { return "Instances" }
func (p *InstancesPage) Scope() string { return "page:instances" }

// InstanceType is the instance type currently shown.
func (p *InstancesPage) InstanceType() string { return schema.InstanceTypes[p.typeIdx].Value }

func (p *InstancesPage) setInstanceType(t string) {
	for i, c := range schema.InstanceTypes {
		if c.Value == t {
			p.typeIdx = i
		}
	}
}

func (p *InstancesPage) Load(ctx context.Context, c *catalog.Catalog) tea.Cmd {
	p.loading = true
	t := p.InstanceType()
	return loadCmd(p.ID(), func() (any, error) { return c.Instances(ctx, t) })
}

func (p *InstancesPage) Loaded(data any, err error) {
	p.loading = false
	p.err = err
	if in, ok := data.([]schema.Instance); ok && err == nil {
		p.instances = in
		p.grid.cursor = 0
	}
}

func (p *InstancesPage) HandleKey(m *Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	scope := p.Scope()
	switch {
	case m.keys.IsAction(msg, actionPrevType, scope):
		p.typeIdx = cycleIndex(p.typeIdx, -1, len(schema.InstanceTypes))
		return true, p.Load(m.ctx, m.catalog)
	case m.keys.IsAction(msg, actionNextType, scope):
		p.typeIdx = cycleIndex(p.typeIdx, 1, len(schema.InstanceTypes))
		return true, p.Load(m.ctx, m.catalog)
	case m.keys.IsAction(msg, actionNewEntry, scope):
		return true, m.openForm(newInstanceForm(m.ctx, m.catalog, m.options, p.InstanceType()))
	case msg.String() == "up" || msg.String() == "k":
		p.grid.moveCursor(-1)
	case msg.String() == "down" || msg.String() == "j":
		p.grid.moveCursor(1)
	default:
		return false, nil
	}
	return true, nil
}

func (p *InstancesPage) View(m *Model, width, height int) string {
	head := []string{typeTabs(schema.InstanceTypes, p.typeIdx), ""}
	if s := loadState(p.err, p.loading); s != "" {
		return strings.Join(append(head, s), "\n")
	}
	rows := make([][]string, 0, len(p.instances))
	for _, in := range p.instances {
		rows = append(rows, []string{
			m.formatDate(in.ReportedAt),
			in.Headline,
			labels(m.options.Regions, in.Locations),
			string(in.Spectrum),
		})
	}
	p.grid.columns[0].width = max(len(p.grid.columns[0].title), m.dateWidth())
	p.grid.setRows(rows)

	var detail string
	if len(p.instances) > 0 {
		in := p.instances[p.grid.cursor]
		lines := []string{titleStyle.Render(in.Headline), in.PostContent}
		if in.URL != "" {
			lines = append(lines, mutedStyle.Render(in.URL))
		}
		detail = lipgloss.NewStyle().Width(max(10, width)).Render(strings.Join(lines, "\n"))
	}
	tableHeight := max(3, height-len(head)-lipgloss.Height(detail)-1)
	parts := append(head, p.grid.render(width, tableHeight))
	if detail != "" {
		parts = append(parts, "", detail)
	}
	return strings.Join(parts, "\n")
}

// TimelinePage shows reports and instances grouped by month.
type TimelinePage struct {
	months  []catalog.Month
	err     error
	loading bool
	offset  int
}

func NewTimelinePage() *TimelinePage { return &TimelinePage{loading: true} }

func (p *TimelinePage) ID() string    { return "timeline" }
func (p *TimelinePage) Title() string { return "Timeline" }
func (p *TimelinePage) Scope() string { return "page:timeline" }

func (p *TimelinePage) Load(ctx context.Context, c *catalog.Catalog) tea.Cmd {
	p.loading = true
	return loadCmd(p.ID(), func() (any, error) { return c.Timeline(ctx) })
}

func (p *TimelinePage) Loaded(data any, err error) {
	p.loading = false
	p.err = err
	if ms, ok := data.([]catalog.Month); ok && err == nil {
		p.months = ms
		p.offset = 0
	}
}

func (p *TimelinePage) HandleKey(m *Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case m.keys.IsAction(msg, actionNewEntry, p.Scope()):
		return true, m.openForm(newTheoryForm(m.ctx, m.catalog, m.options))
	case msg.String() == "up" || msg.String() == "k":
		p.offset = max(0, p.offset-1)
	case msg.String() == "down" || msg.String() == "j":
		p.offset++
	default:
		return false, nil
	}
	return true, nil
}

func (p *TimelinePage) lines(m *Model) []string {
	blank := m.dateWidth()
	var lines []string
	for _, month := range p.months {
		lines = append(lines, monthStyle.Render(month.Label()))
		for _, ev := range month.Events {
			date := m.formatDate(ev.Date)
			if ev.Date.IsZero() {
				date = strings.Repeat(" ", blank)
			}
			detail := ev.Detail
			if ev.Kind == "report" {
				detail = labels(m.options.EventTypes, []string{ev.Detail})
			}
			line := "  " + mutedStyle.Render(date) + "  " + labelStyle.Render(fmt.Sprintf("%-8s", ev.Kind)) + " " + ev.Title
			if detail != "" {
				line += mutedStyle.Render("  " + detail)
			}
			if badge := spectrumBadge(string(ev.Spectrum)); badge != "" {
				line += "  " + badge
			}
			lines = append(lines, line)
		}
		lines = append(lines, "")
	}
	return lines
}

func (p *TimelinePage) View(m *Model, width, height int) string {
	if s := loadState(p.err, p.loading); s != "" {
		return s
	}
	lines := p.lines(m)
	if len(lines) == 0 {
		return mutedStyle.Render("Nothing dated yet. Press n to add a theory.")
	}
	p.offset = min(p.offset, max(0, len(lines)-height))
	end := min(len(lines), p.offset+height)
	return strings.Join(lines[p.offset:end], "\n")
}
