package gemini

import (
	"errors"
	"testing"
)

func TestParseJSON_FencedArray(t *testing.T) {
	result, err := ParseJSON[[]int]("```json\n[1,2,3]\n```")
	if err != nil {
		t.Fatalf("Failed to parse fenced JSON: %v", err)
	}
	if len(result) != 3 || result[0] != 1 || result[1] != 2 || result[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", result)
	}
}

func TestParseJSON_BareObject(t *testing.T) {
	type estimate struct {
		Material float64 `json:"material"`
		Labor    float64 `json:"maoDeObra"`
	}

	result, err := ParseJSON[estimate](`{"material": 1250.50, "maoDeObra": 800}`)
	if err != nil {
		t.Fatalf("Failed to parse bare JSON: %v", err)
	}
	if result.Material != 1250.50 || result.Labor != 800 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestParseJSON_FenceWithoutLanguageTag(t *testing.T) {
	result, err := ParseJSON[map[string]string]("```\n{\"plano\": \"duas chapas\"}\n```")
	if err != nil {
		t.Fatalf("Failed to parse fenced JSON without tag: %v", err)
	}
	if result["plano"] != "duas chapas" {
		t.Errorf("Unexpected result: %v", result)
	}
}

func TestParseJSON_MalformedIsFatal(t *testing.T) {
	_, err := ParseJSON[[]int]("```json\n[1,2,\n```")
	if err == nil {
		t.Fatal("Expected parse error for malformed JSON")
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse, got %v", err)
	}
}

func TestParseJSON_ProseIsFatal(t *testing.T) {
	_, err := ParseJSON[map[string]any]("Claro! Aqui está a lista de materiais que você pediu.")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Expected ErrInvalidResponse for prose reply, got %v", err)
	}
}
