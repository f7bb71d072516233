package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"marcenapp/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestProposalService_RenderHTML(t *testing.T) {
	service := NewProposalService()
	project := &models.Project{Name: "Cozinha Moderna"}

	html, err := service.RenderHTML(project, "# Proposta\n\n| Item | Valor |\n|---|---|\n| Material | R$ 2.500 |\n")
	if err != nil {
		t.Fatalf("Failed to render proposal: %v", err)
	}

	if !strings.Contains(html, "<title>Cozinha Moderna</title>") {
		t.Error("Expected project name as page title")
	}
	if !strings.Contains(html, "<h1") {
		t.Error("Expected heading rendered from markdown")
	}
	if !strings.Contains(html, "<table>") {
		t.Error("Expected GFM table rendered to HTML")
	}
}

func TestProposalService_RenderHTMLFallbackTitle(t *testing.T) {
	service := NewProposalService()

	html, err := service.RenderHTML(&models.Project{}, "texto")
	if err != nil {
		t.Fatalf("Failed to render proposal: %v", err)
	}
	if !strings.Contains(html, "<title>Proposta Comercial</title>") {
		t.Error("Expected fallback title for unnamed project")
	}
}

func TestProposalService_ExportWorkbook(t *testing.T) {
	service := NewProposalService()
	project := &models.Project{
		Name:            "Guarda-Roupa Casal",
		Description:     "Guarda-roupa de 6 portas",
		ClientName:      "Roberto Almeida",
		BOMText:         "4x chapa MDF 18mm\n12x dobradiça reta\n",
		CuttingPlanText: "2 laterais 2400x600mm\n6 portas 2350x400mm",
		OptimizationTips: "Agrupe as portas na mesma chapa.",
		MaterialCost:    floatPtr(3200),
		LaborCost:       floatPtr(2100),
		ShippingCost:    floatPtr(180),
	}

	data, err := service.ExportWorkbook(project)
	if err != nil {
		t.Fatalf("Failed to export workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{sheetBudget, sheetMaterials, sheetCuttingPlan}
	if len(sheets) != len(want) {
		t.Fatalf("Expected sheets %v, got %v", want, sheets)
	}
	for i, name := range want {
		if sheets[i] != name {
			t.Errorf("Expected sheet %q at position %d, got %q", name, i, sheets[i])
		}
	}

	name, err := f.GetCellValue(sheetBudget, "B1")
	if err != nil || name != "Guarda-Roupa Casal" {
		t.Errorf("Expected project name in budget sheet, got %q (err %v)", name, err)
	}

	total, err := f.GetCellValue(sheetBudget, "B9")
	if err != nil {
		t.Fatalf("Failed to read total cell: %v", err)
	}
	if !strings.Contains(total, "5") {
		t.Errorf("Expected summed total 5480 in budget sheet, got %q", total)
	}

	firstItem, err := f.GetCellValue(sheetMaterials, "A2")
	if err != nil || firstItem != "4x chapa MDF 18mm" {
		t.Errorf("Expected first BOM line in materials sheet, got %q (err %v)", firstItem, err)
	}
}

func TestProposalService_ExportWorkbookMissingCosts(t *testing.T) {
	service := NewProposalService()
	project := &models.Project{Name: "Estante", MaterialCost: floatPtr(900)}

	data, err := service.ExportWorkbook(project)
	if err != nil {
		t.Fatalf("Failed to export workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	labor, err := f.GetCellValue(sheetBudget, "B7")
	if err != nil || labor != "a definir" {
		t.Errorf("Expected placeholder for missing labor cost, got %q (err %v)", labor, err)
	}
}
