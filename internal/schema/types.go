package schema

import "time"

// Spectrum is the political leaning recorded on entries.
type Spectrum string

const (
	SpectrumNone   Spectrum = ""
	SpectrumLeft   Spectrum = "LEFT"
	SpectrumCentre Spectrum = "CENTRE"
	SpectrumRight  Spectrum = "RIGHT"
)

// Choice is one entry of a fixed select list.
type Choice struct {
	Value string
	Label string
}

// Fixed select lists used by the entry forms.
var (
	SpectrumChoices = []Choice{
		{Value: string(SpectrumLeft), Label: "Left"},
		{Value: string(SpectrumCentre), Label: "Centre"},
		{Value: string(SpectrumRight), Label: "Right"},
	}
	TheorySourceTypes = []Choice{
		{Value: SourceSocialPost, Label: "Social Media Post"},
		{Value: SourceArticle, Label: "Article"},
		{Value: "book", Label: "Book"},
		{Value: "pdf", Label: "PDF"},
	}
	ReportingSourceTypes = []Choice{
		{Value: SourceSocialPost, Label: "Social Media Post"},
		{Value: SourceArticle, Label: "Article"},
	}
	Platforms = []Choice{
		{Value: "FB", Label: "Facebook"},
		{Value: "IG", Label: "Instagram"},
		{Value: "X", Label: "Twitter"},
		{Value: "YT", Label: "YouTube"},
	}
	InstanceTypes = []Choice{
		{Value: "discrimination", Label: "Discrimination"},
		{Value: "sexual_abuse", Label: "Sexual Abuse"},
		{Value: "exploitation", Label: "Exploitation"},
		{Value: "state_violence", Label: "State Violence"},
		{Value: "state_sponsored_terrorism", Label: "State Sponsored Terrorism"},
		{Value: "religious_stupidity", Label: "Religious Stupidity"},
	}
	EntityTypes = []Choice{
		{Value: "Character", Label: "Characters"},
		{Value: "Political Party", Label: "Political Parties"},
		{Value: "Movement", Label: "Movements"},
	}
)

const (
	SourceSocialPost = "social media post"
	SourceArticle    = "article"

	CategoryTheory    = "theory"
	CategoryReporting = "reporting"
)

// ChoiceLabel returns the label for value, or value itself when unknown.
func ChoiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// Entity is a person, party or movement shown on the wiki.
type Entity struct {
	ID          string    `sheet:"entity_id"`
	Name        string    `sheet:"name"`
	Type        string    `sheet:"entity_type"`
	Description string    `sheet:"description"`
	Spectrum    Spectrum  `sheet:"spectrum"`
	CreatedAt   time.Time `sheet:"created_at"`
}

// Theory is a theory article entry.
type Theory struct {
	ID          string    `sheet:"theory_id"`
	Title       string    `sheet:"title"`
	Abstract    string    `sheet:"description"`
	Authors     []string  `sheet:"author"`
	PublishedAt time.Time `sheet:"publication_date"`
	SourceType  string    `sheet:"src_type"`
	Platform    string    `sheet:"platform"`
	Domains     []string  `sheet:"domain"`
	Keywords    []string  `sheet:"keyword_tags"`
	Spectrum    Spectrum  `sheet:"spectrum"`
	Category    string    `sheet:"category"`
	Entities    []string  `sheet:"entity_id"`
	URL         string    `sheet:"references"`
	PostContent string    `sheet:"post_content"`
}

// Report is a reporting event entry.
type Report struct {
	ID           string    `sheet:"report_id"`
	Headline     string    `sheet:"title"`
	Description  string    `sheet:"description"`
	EventDate    time.Time `sheet:"event_date"`
	ReportedAt   time.Time `sheet:"reporting_date"`
	SourceType   string    `sheet:"src_type"`
	Platform     string    `sheet:"platform"`
	Spectrum     Spectrum  `sheet:"spectrum"`
	Category     string    `sheet:"category"`
	Entities     []string  `sheet:"entity_id"`
	EventTypeTag string    `sheet:"event_type_tag"`
	Regions      []string  `sheet:"location"`
	URL          string    `sheet:"source_link"`
	Authors      []string  `sheet:"author"`
}

// EventTypeTag classifies reporting events.
type EventTypeTag struct {
	ID          string `sheet:"tag_id"`
	Name        string `sheet:"tag_name"`
	Category    string `sheet:"tag_category"`
	EntityType  string `sheet:"entity_type"`
	Parent      string `sheet:"parent_tag"`
	Description string `sheet:"description"`
}

// ReportEventType links a report to an event type tag.
type ReportEventType struct {
	ReportID string `sheet:"report_id"`
	TagID    string `sheet:"tag_id"`
}

// Instance is a documented instance of a given type.
type Instance struct {
	ID          string    `sheet:"instance_id"`
	Type        string    `sheet:"instance_type"`
	Headline    string    `sheet:"headline"`
	PostContent string    `sheet:"post_content"`
	Locations   []string  `sheet:"location"`
	ReportedAt  time.Time `sheet:"date_reported"`
	URL         string    `sheet:"source_link"`
	Spectrum    Spectrum  `sheet:"spectrum"`
}

// LookupItem is a row of one of the option lookup tables.
type LookupItem struct {
	ID   string `sheet:"id"`
	Name string `sheet:"name"`
}
