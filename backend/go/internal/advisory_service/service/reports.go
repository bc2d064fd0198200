package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"

	"StartupCopilot/backend/go/internal/models"
	"StartupCopilot/backend/go/pkg/logger"
)

// ReportExporter renders a project as an Excel workbook and uploads it to
// object storage. The returned object key is stable per project so a
// re-export overwrites the previous report.
type ReportExporter struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// NewReportExporter creates an exporter writing into the given bucket.
func NewReportExporter(client *minio.Client, bucket string, log *logger.Logger) *ReportExporter {
	return &ReportExporter{client: client, bucket: bucket, log: log}
}

// Export builds the workbook and uploads it. It returns the object key.
func (e *ReportExporter) Export(ctx context.Context, userID string, project *models.Project, stats *models.ProjectStats) (string, error) {
	buf, err := buildWorkbook(project, stats)
	if err != nil {
		return "", fmt.Errorf("build report workbook: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.xlsx", userID, project.ID)
	contentType := mimetype.Detect(buf).String()
	_, err = e.client.PutObject(ctx, e.bucket, key, bytes.NewReader(buf), int64(len(buf)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	e.log.WithPayload(map[string]interface{}{
		"object":       key,
		"content_type": contentType,
		"size":         len(buf),
	}).Info("project report exported")
	return key, nil
}

const (
	reportSheetOverview = "Overview"
	reportSheetAnalysis = "Analysis"
)

func buildWorkbook(project *models.Project, stats *models.ProjectStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet, err := f.NewSheet(reportSheetOverview)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(sheet)
	f.DeleteSheet("Sheet1")

	rows := [][]interface{}{
		{"Project", project.Name},
		{"Description", project.Description},
		{"Status", string(project.Status)},
		{"Progress", project.Progress},
		{"Type", string(project.Type)},
		{"Tags", strings.Join(project.Tags, ", ")},
		{"Created", project.CreatedAt.Format(time.RFC3339)},
		{"Updated", project.UpdatedAt.Format(time.RFC3339)},
	}
	if stats != nil {
		rows = append(rows,
			[]interface{}{"Total projects", stats.TotalProjects},
			[]interface{}{"Completed", stats.CompletedProjects},
			[]interface{}{"In progress", stats.InProgressProjects},
			[]interface{}{"Draft", stats.DraftProjects},
		)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(reportSheetOverview, cell, &row); err != nil {
			return nil, err
		}
	}

	if project.Content != nil {
		if _, err := f.NewSheet(reportSheetAnalysis); err != nil {
			return nil, err
		}
		row := 1
		writeSection := func(title string, lines []string) error {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(reportSheetAnalysis, cell, title); err != nil {
				return err
			}
			row++
			for _, line := range lines {
				cell, _ := excelize.CoordinatesToCellName(2, row)
				if err := f.SetCellValue(reportSheetAnalysis, cell, line); err != nil {
					return err
				}
				row++
			}
			row++
			return nil
		}

		if analysis := project.Content.IdeaAnalysis; analysis != nil {
			if err := writeSection(fmt.Sprintf("Idea analysis (viability %d/10)", analysis.ViabilityScore), append([]string{analysis.Summary}, analysis.Recommendations...)); err != nil {
				return nil, err
			}
		}
		if research := project.Content.Competitors; research != nil {
			var names []string
			for _, c := range research.Competitors {
				names = append(names, c.Name+": "+c.Positioning)
			}
			if err := writeSection("Competitor research", append(names, research.Summary)); err != nil {
				return nil, err
			}
		}
		if swot := project.Content.SWOT; swot != nil {
			if err := writeSection("SWOT strengths", swot.Strengths); err != nil {
				return nil, err
			}
			if err := writeSection("SWOT weaknesses", swot.Weaknesses); err != nil {
				return nil, err
			}
			if err := writeSection("SWOT opportunities", swot.Opportunities); err != nil {
				return nil, err
			}
			if err := writeSection("SWOT threats", swot.Threats); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
