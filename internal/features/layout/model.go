package layout

// Widget types supported by the renderer.
const (
	WidgetTypeKPI        = "kpi"
	WidgetTypeTimeseries = "timeseries"
	WidgetTypeBar        = "bar"
	WidgetTypePie        = "pie"
	WidgetTypeDonut      = "donut"
	WidgetTypeTable      = "table"
	WidgetTypeText       = "text"
	WidgetTypeImage      = "image"
)

// Theme radius bounds (inclusive).
const (
	RadiusMin = 0
	RadiusMax = 24
)

// DefaultPageName is the name given to the synthetic page a legacy
// flat-widget document is wrapped into.
const DefaultPageName = "Página 1"

// Document is the full layout description of a dashboard: theme, global
// filters and either a legacy flat widget list or a list of pages.
type Document struct {
	Theme         *Theme         `json:"theme,omitempty" bson:"theme,omitempty"`
	GlobalFilters *GlobalFilters `json:"globalFilters,omitempty" bson:"globalFilters,omitempty"`
	Widgets       []Widget       `json:"widgets,omitempty" bson:"widgets,omitempty"` // legacy shape
	Pages         []Page         `json:"pages,omitempty" bson:"pages,omitempty"`
}

type Theme struct {
	Mode       string `json:"mode" bson:"mode"`
	Primary    string `json:"primary" bson:"primary"`
	Secondary  string `json:"secondary" bson:"secondary"`
	Background string `json:"background" bson:"background"`
	Surface    string `json:"surface" bson:"surface"`
	Text       string `json:"text" bson:"text"`
	Accent     string `json:"accent" bson:"accent"`
	Radius     int    `json:"radius" bson:"radius"`
}

type GlobalFilters struct {
	DateRange      *DateRange   `json:"dateRange,omitempty" bson:"dateRange,omitempty"`
	Platforms      []string     `json:"platforms,omitempty" bson:"platforms,omitempty"`
	Accounts       []AccountRef `json:"accounts,omitempty" bson:"accounts,omitempty"`
	CompareMode    string       `json:"compareMode,omitempty" bson:"compareMode,omitempty"`
	AutoRefreshSec int          `json:"autoRefreshSec" bson:"autoRefreshSec"`
	Controls       *Controls    `json:"controls,omitempty" bson:"controls,omitempty"`
}

// DateRange is either a named preset or an explicit custom range.
type DateRange struct {
	Preset string `json:"preset,omitempty" bson:"preset,omitempty"`
	From   string `json:"from,omitempty" bson:"from,omitempty"`
	To     string `json:"to,omitempty" bson:"to,omitempty"`
}

type AccountRef struct {
	Platform  string `json:"platform" bson:"platform"`
	AccountID string `json:"accountId" bson:"accountId"`
}

// Controls toggles the filter bar widgets shown to viewers.
type Controls struct {
	ShowDateRange bool `json:"showDateRange" bson:"showDateRange"`
	ShowPlatforms bool `json:"showPlatforms" bson:"showPlatforms"`
	ShowCompare   bool `json:"showCompare" bson:"showCompare"`
}

type Page struct {
	ID      string   `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Widgets []Widget `json:"widgets" bson:"widgets"`
}

// Widget is one visual unit on a page. Type decides which payload applies:
// chart-like widgets carry a Query, text/image widgets carry Content.
type Widget struct {
	ID      string   `json:"id" bson:"id"`
	Type    string   `json:"type" bson:"type"`
	Title   string   `json:"title,omitempty" bson:"title,omitempty"`
	Layout  GridPos  `json:"layout" bson:"layout"`
	Query   *Query   `json:"query,omitempty" bson:"query,omitempty"`
	Content *Content `json:"content,omitempty" bson:"content,omitempty"`
}

// GridPos is the widget's grid geometry
type GridPos struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
	W int `json:"w" bson:"w"`
	H int `json:"h" bson:"h"`
}

type Query struct {
	Dimensions []string      `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Metrics    []string      `json:"metrics,omitempty" bson:"metrics,omitempty"`
	Filters    []QueryFilter `json:"filters,omitempty" bson:"filters,omitempty"`
	Sort       *Sort         `json:"sort,omitempty" bson:"sort,omitempty"`
	Limit      int           `json:"limit,omitempty" bson:"limit,omitempty"`
}

type QueryFilter struct {
	Field    string      `json:"field" bson:"field"`
	Operator string      `json:"operator" bson:"operator"`
	Value    interface{} `json:"value" bson:"value"`
}

type Sort struct {
	Field     string `json:"field" bson:"field"`
	Direction string `json:"direction" bson:"direction"`
}

type Content struct {
	Text     string `json:"text,omitempty" bson:"text,omitempty"`
	ImageURL string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Alt      string `json:"alt,omitempty" bson:"alt,omitempty"`
}

// DefaultTheme is merged in when a document has no theme.
func DefaultTheme() *Theme {
	return &Theme{
		Mode:       "light",
		Primary:    "#2563eb",
		Secondary:  "#7c3aed",
		Background: "#f8fafc",
		Surface:    "#ffffff",
		Text:       "#0f172a",
		Accent:     "#f59e0b",
		Radius:     8,
	}
}

// DefaultControls is merged in when globalFilters has no controls object.
func DefaultControls() *Controls {
	return &Controls{
		ShowDateRange: true,
		ShowPlatforms: true,
		ShowCompare:   false,
	}
}
