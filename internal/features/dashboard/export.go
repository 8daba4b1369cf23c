package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-reports/internal/common/models"
	"go-reports/internal/features/layout"

	"github.com/xuri/excelize/v2"
)

const (
	versionsSheet = "Versions"
	auditSheet    = "Audit"
)

// ExportVersions builds an xlsx workbook with the dashboard's version history
// and audit trail. Returns the file bytes and a download filename.
func (s *ServiceImpl) ExportVersions(ctx context.Context, actor models.Actor, id string) ([]byte, string, error) {
	dash, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	versions, err := s.VersionRepo.List(ctx, dash.ID)
	if err != nil {
		return nil, "", err
	}
	logs, err := s.AuditRepo.ListByEntity(ctx, actor.TenantID, "dashboard", dash.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(versionsSheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	versionColumns := []string{"Version", "Pages", "Widgets", "Health", "Published", "Created By", "Created At"}
	writeHeader(f, versionsSheet, versionColumns, headerStyle)
	for rowIdx, version := range versions {
		published := ""
		if dash.PublishedVersionID != nil && *dash.PublishedVersionID == version.ID {
			published = "yes"
		}
		writeRow(f, versionsSheet, rowIdx+2, []any{
			version.VersionNumber,
			pageCount(version.Layout),
			widgetCount(version.Layout),
			string(layout.Evaluate(version.Layout).DashboardHealth),
			published,
			version.CreatedBy.Hex(),
			version.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	sizeColumns(f, versionsSheet, len(versionColumns))

	if _, err := f.NewSheet(auditSheet); err != nil {
		return nil, "", err
	}
	auditColumns := []string{"At", "Action", "Actor", "Detail"}
	writeHeader(f, auditSheet, auditColumns, headerStyle)
	for rowIdx, entry := range logs {
		writeRow(f, auditSheet, rowIdx+2, []any{
			entry.At.Format("2006-01-02 15:04:05"),
			string(entry.Action),
			entry.ActorID.Hex(),
			entry.Detail,
		})
	}
	sizeColumns(f, auditSheet, len(auditColumns))

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-versions-%s.xlsx",
		strings.ReplaceAll(strings.ToLower(dash.Name), " ", "-"),
		time.Now().Format("20060102"))
	return buffer.Bytes(), filename, nil
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) {
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
	}
}

func sizeColumns(f *excelize.File, sheet string, n int) {
	for i := 0; i < n; i++ {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}
}

func pageCount(doc *layout.Document) int {
	if doc == nil {
		return 0
	}
	if len(doc.Pages) == 0 && len(doc.Widgets) > 0 {
		return 1
	}
	return len(doc.Pages)
}

func widgetCount(doc *layout.Document) int {
	if doc == nil {
		return 0
	}
	n := len(doc.Widgets)
	for _, page := range doc.Pages {
		n += len(page.Widgets)
	}
	return n
}
