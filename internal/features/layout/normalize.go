package layout

// Normalize produces the canonical form of a validated document: a legacy
// flat widget list is wrapped into a single synthetic page, and missing
// theme/controls are filled with defaults. The input is not mutated and
// normalizing an already-normalized document returns an equal document.
func Normalize(doc *Document) *Document {
	out := &Document{
		Theme:         doc.Theme,
		GlobalFilters: doc.GlobalFilters,
		Pages:         doc.Pages,
	}

	if out.Theme == nil {
		out.Theme = DefaultTheme()
	}

	if out.GlobalFilters == nil {
		out.GlobalFilters = &GlobalFilters{Controls: DefaultControls()}
	} else if out.GlobalFilters.Controls == nil {
		filters := *out.GlobalFilters
		filters.Controls = DefaultControls()
		out.GlobalFilters = &filters
	}

	// Every downstream consumer only ever sees the pages shape.
	if len(out.Pages) == 0 {
		widgets := doc.Widgets
		if widgets == nil {
			widgets = []Widget{}
		}
		out.Pages = []Page{{
			ID:      "page-1",
			Name:    DefaultPageName,
			Widgets: widgets,
		}}
	}

	return out
}
