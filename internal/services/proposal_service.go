package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"marcenapp/internal/models"
)

const (
	sheetBudget      = "Orçamento"
	sheetMaterials   = "Lista de Materiais"
	sheetCuttingPlan = "Plano de Corte"
)

// proposalMarkdown renders GFM so tables in AI-written proposals survive
// the conversion.
var proposalMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ProposalService turns project artifacts into client-facing documents: a
// printable HTML proposal and an xlsx workbook for the workshop floor.
type ProposalService struct{}

// NewProposalService creates a new proposal service.
func NewProposalService() *ProposalService {
	return &ProposalService{}
}

// RenderHTML converts the proposal markdown into a standalone printable page.
func (s *ProposalService) RenderHTML(project *models.Project, markdown string) (string, error) {
	var body bytes.Buffer
	if err := proposalMarkdown.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("failed to convert proposal markdown: %w", err)
	}

	title := project.Name
	if title == "" {
		title = "Proposta Comercial"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body {
            font-family: 'Segoe UI', Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 40px 20px;
            color: #333;
        }
        h1, h2, h3 { color: #4a3426; }
        table { border-collapse: collapse; width: 100%%; margin: 20px 0; }
        th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
        th { background-color: #8b5e3c; color: white; }
        tr:nth-child(even) { background-color: #f9f6f2; }
        footer { margin-top: 40px; font-size: 0.85em; color: #999; }
        @media print { body { padding: 0; } }
    </style>
</head>
<body>
%s
<footer>Proposta gerada em %s</footer>
</body>
</html>`, title, body.String(), time.Now().Format("02/01/2006")), nil
}

// ExportWorkbook builds the xlsx workbook with the budget, material list,
// and cutting plan of one project.
func (s *ProposalService) ExportWorkbook(project *models.Project) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetBudget); err != nil {
		return nil, fmt.Errorf("failed to rename budget sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"8B5E3C"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	currencyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to create currency style: %w", err)
	}

	if err := s.writeBudgetSheet(f, project, headerStyle, currencyStyle); err != nil {
		return nil, err
	}
	if err := s.writeMaterialsSheet(f, project, headerStyle); err != nil {
		return nil, err
	}
	if err := s.writeCuttingPlanSheet(f, project, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ProposalService) writeBudgetSheet(f *excelize.File, project *models.Project, headerStyle, currencyStyle int) error {
	rows := [][]interface{}{
		{"Projeto", project.Name},
		{"Descrição", project.Description},
		{"Cliente", project.ClientName},
		{},
		{"Item", "Valor (R$)"},
	}
	costRow := func(label string, value *float64) []interface{} {
		if value == nil {
			return []interface{}{label, "a definir"}
		}
		return []interface{}{label, *value}
	}
	rows = append(rows,
		costRow("Material", project.MaterialCost),
		costRow("Mão de obra", project.LaborCost),
		costRow("Frete", project.ShippingCost),
	)
	if project.MaterialCost != nil && project.LaborCost != nil && project.ShippingCost != nil {
		total := *project.MaterialCost + *project.LaborCost + *project.ShippingCost
		rows = append(rows, []interface{}{"Total", total})
	}

	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to address budget cell: %w", err)
			}
			if err := f.SetCellValue(sheetBudget, cell, value); err != nil {
				return fmt.Errorf("failed to write budget cell: %w", err)
			}
		}
	}
	if err := f.SetCellStyle(sheetBudget, "A5", "B5", headerStyle); err != nil {
		return fmt.Errorf("failed to style budget header: %w", err)
	}
	if err := f.SetCellStyle(sheetBudget, "B6", fmt.Sprintf("B%d", len(rows)), currencyStyle); err != nil {
		return fmt.Errorf("failed to style budget values: %w", err)
	}
	if err := f.SetColWidth(sheetBudget, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to size budget columns: %w", err)
	}
	return f.SetColWidth(sheetBudget, "B", "B", 48)
}

func (s *ProposalService) writeMaterialsSheet(f *excelize.File, project *models.Project, headerStyle int) error {
	if _, err := f.NewSheet(sheetMaterials); err != nil {
		return fmt.Errorf("failed to create materials sheet: %w", err)
	}
	if err := f.SetCellValue(sheetMaterials, "A1", "Item"); err != nil {
		return fmt.Errorf("failed to write materials header: %w", err)
	}
	if err := f.SetCellStyle(sheetMaterials, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("failed to style materials header: %w", err)
	}

	row := 2
	for _, line := range splitLines(project.BOMText) {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheetMaterials, cell, line); err != nil {
			return fmt.Errorf("failed to write materials row: %w", err)
		}
		row++
	}
	return f.SetColWidth(sheetMaterials, "A", "A", 72)
}

func (s *ProposalService) writeCuttingPlanSheet(f *excelize.File, project *models.Project, headerStyle int) error {
	if _, err := f.NewSheet(sheetCuttingPlan); err != nil {
		return fmt.Errorf("failed to create cutting plan sheet: %w", err)
	}
	if err := f.SetCellValue(sheetCuttingPlan, "A1", "Plano de Corte"); err != nil {
		return fmt.Errorf("failed to write cutting plan header: %w", err)
	}
	if err := f.SetCellStyle(sheetCuttingPlan, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("failed to style cutting plan header: %w", err)
	}

	row := 2
	for _, line := range splitLines(project.CuttingPlanText) {
		if err := f.SetCellValue(sheetCuttingPlan, fmt.Sprintf("A%d", row), line); err != nil {
			return fmt.Errorf("failed to write cutting plan row: %w", err)
		}
		row++
	}

	if tips := strings.TrimSpace(project.OptimizationTips); tips != "" {
		row++
		if err := f.SetCellValue(sheetCuttingPlan, fmt.Sprintf("A%d", row), "Dicas de Otimização"); err != nil {
			return fmt.Errorf("failed to write tips header: %w", err)
		}
		if err := f.SetCellStyle(sheetCuttingPlan, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle); err != nil {
			return fmt.Errorf("failed to style tips header: %w", err)
		}
		row++
		for _, line := range splitLines(tips) {
			if err := f.SetCellValue(sheetCuttingPlan, fmt.Sprintf("A%d", row), line); err != nil {
				return fmt.Errorf("failed to write tips row: %w", err)
			}
			row++
		}
	}
	return f.SetColWidth(sheetCuttingPlan, "A", "A", 72)
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
