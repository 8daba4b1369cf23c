package layout

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// AllowedAutoRefreshSec are the only accepted auto-refresh intervals.
var AllowedAutoRefreshSec = []int{0, 30, 60, 300}

var widgetTypes = []string{
	WidgetTypeKPI, WidgetTypeTimeseries, WidgetTypeBar, WidgetTypePie,
	WidgetTypeDonut, WidgetTypeTable, WidgetTypeText, WidgetTypeImage,
}

// Dimensions the date-range filter can group by. A widget query referencing
// one of these is considered a date breakdown.
var dateDimensions = []string{"date", "day", "week", "month"}

var colorTokenRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Issue is a single violated validation rule.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError aggregates every rule the document violates.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", i.Path, i.Message))
	}
	return "invalid layout: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(path, format string, args ...interface{}) {
	e.Issues = append(e.Issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a raw layout document against the structural rules.
// It returns a *ValidationError listing every violation, or nil.
func Validate(doc *Document) error {
	verr := &ValidationError{}

	if doc == nil {
		verr.add("", "document is required")
		return verr
	}

	if doc.Theme != nil {
		validateTheme(doc.Theme, verr)
	}
	if doc.GlobalFilters != nil {
		validateGlobalFilters(doc.GlobalFilters, verr)
	}

	// A document carries either a legacy flat widget list or pages, never both.
	switch {
	case len(doc.Widgets) > 0 && len(doc.Pages) > 0:
		verr.add("pages", "document cannot contain both widgets and pages")
	case doc.Pages != nil:
		validatePages(doc.Pages, verr)
	default:
		validateWidgets("widgets", doc.Widgets, map[string]string{}, verr)
	}

	if len(verr.Issues) > 0 {
		return verr
	}
	return nil
}

func validateTheme(theme *Theme, verr *ValidationError) {
	colors := map[string]string{
		"primary":    theme.Primary,
		"secondary":  theme.Secondary,
		"background": theme.Background,
		"surface":    theme.Surface,
		"text":       theme.Text,
		"accent":     theme.Accent,
	}
	for field, value := range colors {
		if !colorTokenRe.MatchString(value) {
			verr.add("theme."+field, "%q is not a valid color token", value)
		}
	}
	if theme.Radius < RadiusMin || theme.Radius > RadiusMax {
		verr.add("theme.radius", "must be between %d and %d, got %d", RadiusMin, RadiusMax, theme.Radius)
	}
}

func validateGlobalFilters(filters *GlobalFilters, verr *ValidationError) {
	if !slices.Contains(AllowedAutoRefreshSec, filters.AutoRefreshSec) {
		verr.add("globalFilters.autoRefreshSec", "must be one of %v, got %d", AllowedAutoRefreshSec, filters.AutoRefreshSec)
	}
}

func validatePages(pages []Page, verr *ValidationError) {
	if len(pages) == 0 {
		verr.add("pages", "must contain at least one page")
		return
	}

	pageIDs := map[string]bool{}
	widgetIDs := map[string]string{} // widget id -> page path, uniqueness is document-wide
	for i, page := range pages {
		path := fmt.Sprintf("pages[%d]", i)
		if page.ID == "" {
			verr.add(path+".id", "page id is required")
		} else if pageIDs[page.ID] {
			verr.add(path+".id", "duplicate page id %q", page.ID)
		}
		pageIDs[page.ID] = true

		if strings.TrimSpace(page.Name) == "" {
			verr.add(path+".name", "page name is required")
		}

		validateWidgets(path+".widgets", page.Widgets, widgetIDs, verr)
	}
}

func validateWidgets(path string, widgets []Widget, seen map[string]string, verr *ValidationError) {
	for i, widget := range widgets {
		wpath := fmt.Sprintf("%s[%d]", path, i)
		if widget.ID == "" {
			verr.add(wpath+".id", "widget id is required")
		} else if prev, dup := seen[widget.ID]; dup {
			verr.add(wpath+".id", "duplicate widget id %q (already used at %s)", widget.ID, prev)
		} else {
			seen[widget.ID] = wpath
		}

		if !slices.Contains(widgetTypes, widget.Type) {
			verr.add(wpath+".type", "unknown widget type %q", widget.Type)
			continue
		}

		if reason := checkWidgetPayload(&widget); reason != "" {
			verr.add(wpath, "%s", reason)
		}
	}
}

// checkWidgetPayload applies the type-dependent structural rules. It is shared
// with the health evaluator so stored documents are re-checked against the
// same rules that gate writes.
func checkWidgetPayload(widget *Widget) string {
	switch widget.Type {
	case WidgetTypeKPI:
		if widget.Query != nil {
			for _, dim := range widget.Query.Dimensions {
				if !isDateDimension(dim) {
					return fmt.Sprintf("kpi widgets only accept date dimensions, got %q", dim)
				}
			}
		}
	case WidgetTypeTimeseries:
		if widget.Query != nil && !hasDateDimension(widget.Query) {
			return "timeseries widgets require a date dimension"
		}
	case WidgetTypeBar:
		if widget.Query != nil && hasDateDimension(widget.Query) {
			return "bar widgets break down by category and cannot use a date dimension"
		}
	case WidgetTypeText:
		if widget.Content == nil || strings.TrimSpace(widget.Content.Text) == "" {
			return "text widgets require content.text"
		}
	}
	return ""
}

func isDateDimension(dim string) bool {
	return slices.Contains(dateDimensions, strings.ToLower(dim))
}

func hasDateDimension(query *Query) bool {
	for _, dim := range query.Dimensions {
		if isDateDimension(dim) {
			return true
		}
	}
	return false
}
