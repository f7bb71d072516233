package services

import (
	"os"
	"path/filepath"
	"testing"
)

const testCatalog = `manufacturers:
  - name: Duratex
    finishes:
      - id: duratex-branco-diamante
        name: Branco Diamante
        type: MDF
      - id: duratex-noce-oro
        name: Noce Oro
        type: MDF
  - name: Arauco
    finishes:
      - id: arauco-blanco-nieve
        name: Blanco Nieve
        type: MDP
        manufacturer: Arauco Argentina
`

func writeTestCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test catalog: %v", err)
	}
	return path
}

func TestCatalogService_LoadsManufacturers(t *testing.T) {
	service, err := NewCatalogService(writeTestCatalog(t, testCatalog))
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	manufacturers := service.Manufacturers()
	if len(manufacturers) != 2 {
		t.Fatalf("Expected 2 manufacturers, got %d", len(manufacturers))
	}
	if manufacturers[0].Name != "Duratex" || len(manufacturers[0].Finishes) != 2 {
		t.Errorf("Unexpected first manufacturer: %+v", manufacturers[0])
	}
}

func TestCatalogService_FillsManufacturerOnFinishes(t *testing.T) {
	service, err := NewCatalogService(writeTestCatalog(t, testCatalog))
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	finish, ok := service.FindFinish("duratex-noce-oro")
	if !ok {
		t.Fatal("Expected to find duratex-noce-oro")
	}
	if finish.Manufacturer != "Duratex" {
		t.Errorf("Expected manufacturer inherited from group, got %q", finish.Manufacturer)
	}

	// An explicit manufacturer on the finish wins over the group name.
	finish, ok = service.FindFinish("arauco-blanco-nieve")
	if !ok {
		t.Fatal("Expected to find arauco-blanco-nieve")
	}
	if finish.Manufacturer != "Arauco Argentina" {
		t.Errorf("Expected explicit manufacturer kept, got %q", finish.Manufacturer)
	}
}

func TestCatalogService_FindFinishMiss(t *testing.T) {
	service, err := NewCatalogService(writeTestCatalog(t, testCatalog))
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	if _, ok := service.FindFinish("nope"); ok {
		t.Error("Expected miss for unknown finish id")
	}
}

func TestCatalogService_ReloadKeepsOldOnBadFile(t *testing.T) {
	path := writeTestCatalog(t, testCatalog)
	service, err := NewCatalogService(path)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	if err := os.WriteFile(path, []byte("manufacturers: [\n"), 0o644); err != nil {
		t.Fatalf("Failed to corrupt catalog: %v", err)
	}
	if err := service.reload(); err == nil {
		t.Fatal("Expected reload of corrupt file to fail")
	}

	if len(service.Manufacturers()) != 2 {
		t.Error("Failed reload replaced the previous catalog")
	}
}

func TestCatalogService_ReloadPicksUpNewFinishes(t *testing.T) {
	path := writeTestCatalog(t, testCatalog)
	service, err := NewCatalogService(path)
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	extended := testCatalog + `  - name: Guararapes
    finishes:
      - id: guararapes-nero
        name: Nero
        type: MDF
`
	if err := os.WriteFile(path, []byte(extended), 0o644); err != nil {
		t.Fatalf("Failed to rewrite catalog: %v", err)
	}
	if err := service.reload(); err != nil {
		t.Fatalf("Failed to reload catalog: %v", err)
	}

	if _, ok := service.FindFinish("guararapes-nero"); !ok {
		t.Error("Expected new finish after reload")
	}
}
