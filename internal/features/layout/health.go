package layout

// HealthStatus is the re-validation verdict for a stored layout.
type HealthStatus string

const (
	HealthOK HealthStatus = "OK"
	// HealthDegraded is part of the status vocabulary but nothing produces it
	// today; aggregation is binary OK/BLOCKED.
	HealthDegraded HealthStatus = "DEGRADED"
	HealthBlocked  HealthStatus = "BLOCKED"
)

// WidgetHealth is the verdict for a single widget.
type WidgetHealth struct {
	WidgetID string       `json:"widgetId"`
	Status   HealthStatus `json:"status"`
	Reason   string       `json:"reason,omitempty"`
}

// Report aggregates widget verdicts for a whole document.
type Report struct {
	DashboardHealth HealthStatus   `json:"dashboardHealth"`
	Widgets         []WidgetHealth `json:"widgets"`
}

// Evaluate re-checks a stored layout document against the current structural
// rules. Stored versions were validated under whatever rules were active when
// they were written (or bypassed validation entirely), so nothing is trusted:
// every widget on every page is re-checked before the document is exposed
// externally. Pure function, no side effects.
func Evaluate(doc *Document) Report {
	report := Report{DashboardHealth: HealthOK}

	pages := doc.Pages
	if len(pages) == 0 && len(doc.Widgets) > 0 {
		pages = []Page{{Widgets: doc.Widgets}}
	}

	for _, page := range pages {
		for i := range page.Widgets {
			widget := page.Widgets[i]
			wh := WidgetHealth{WidgetID: widget.ID, Status: HealthOK}
			if reason := checkWidgetPayload(&widget); reason != "" {
				wh.Status = HealthBlocked
				wh.Reason = reason
				report.DashboardHealth = HealthBlocked
			}
			report.Widgets = append(report.Widgets, wh)
		}
	}

	return report
}
