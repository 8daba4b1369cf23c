package main

import (
	"context"
	"time"

	"go-reports/internal/config"
	"go-reports/internal/database"
	"go-reports/internal/features/layout"
	"go-reports/internal/features/template"
	"go-reports/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// globalTemplates are the starter layouts every tenant sees.
func globalTemplates() []template.Template {
	return []template.Template{
		{
			Name:     "Visão geral",
			Category: "overview",
			Layout: &layout.Document{
				Pages: []layout.Page{{
					ID:   "page-1",
					Name: "Página 1",
					Widgets: []layout.Widget{
						{
							ID:     "w-spend",
							Type:   layout.WidgetTypeKPI,
							Title:  "Investimento",
							Layout: layout.GridPos{X: 0, Y: 0, W: 3, H: 2},
							Query:  &layout.Query{Metrics: []string{"spend"}},
						},
						{
							ID:     "w-trend",
							Type:   layout.WidgetTypeTimeseries,
							Title:  "Evolução diária",
							Layout: layout.GridPos{X: 0, Y: 2, W: 12, H: 4},
							Query:  &layout.Query{Dimensions: []string{"date"}, Metrics: []string{"impressions", "clicks"}},
						},
						{
							ID:     "w-platform",
							Type:   layout.WidgetTypeBar,
							Title:  "Por plataforma",
							Layout: layout.GridPos{X: 0, Y: 6, W: 6, H: 4},
							Query:  &layout.Query{Dimensions: []string{"platform"}, Metrics: []string{"spend"}},
						},
					},
				}},
			},
		},
		{
			Name:     "Relatório social",
			Category: "social",
			Layout: &layout.Document{
				Pages: []layout.Page{{
					ID:   "page-1",
					Name: "Página 1",
					Widgets: []layout.Widget{
						{
							ID:     "w-followers",
							Type:   layout.WidgetTypeKPI,
							Title:  "Seguidores",
							Layout: layout.GridPos{X: 0, Y: 0, W: 3, H: 2},
							Query:  &layout.Query{Metrics: []string{"followers"}},
						},
						{
							ID:     "w-notes",
							Type:   layout.WidgetTypeText,
							Title:  "Notas",
							Layout: layout.GridPos{X: 3, Y: 0, W: 9, H: 2},
							Content: &layout.Content{
								Text: "Resumo do período.",
							},
						},
					},
				}},
			},
		},
	}
}

// Seed inserts the global templates and shuts the app down.
func Seed(
	lc fx.Lifecycle,
	templateRepo template.Repository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Seeding global templates...")

				seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for _, tmpl := range globalTemplates() {
					if err := layout.Validate(tmpl.Layout); err != nil {
						logger.Error("Template layout invalid, skipping",
							zap.String("name", tmpl.Name), zap.Error(err))
						continue
					}
					t := tmpl
					if err := templateRepo.Create(seedCtx, &t); err != nil {
						logger.Error("Failed to seed template",
							zap.String("name", tmpl.Name), zap.Error(err))
						continue
					}
					logger.Info("Seeded template", zap.String("name", tmpl.Name))
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			template.NewRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
