package models

import "time"

// Project represents one furniture-design project and every artifact generated
// for it. The whole record is stored as a single JSON document so that partial
// updates can merge sparse field sets over the stored copy.
type Project struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	Name        string `json:"name"`
	Description string `json:"description"`
	Style       string `json:"style"`

	// ClientID is a leftover from an earlier design that linked projects to
	// clients. The entities are independent now; the field is kept so old
	// documents still round-trip.
	ClientID string `json:"clientId,omitempty"`

	SelectedFinish *SelectedFinish `json:"selectedFinish,omitempty"`

	// Views3D holds generated render images as data URLs. The list is
	// append-only: new renders are added at the end, existing entries are
	// never reordered or rewritten.
	Views3D []string `json:"views3d"`

	FloorPlanImage string `json:"floorPlanImage,omitempty"`

	BOMText            string `json:"bomText,omitempty"`
	CuttingPlanText    string `json:"cuttingPlanText,omitempty"`
	CuttingPlanDiagram string `json:"cuttingPlanDiagram,omitempty"`
	OptimizationTips   string `json:"optimizationTips,omitempty"`
	AssemblyText       string `json:"assemblyText,omitempty"`

	MaterialCost *float64 `json:"materialCost,omitempty"`
	LaborCost    *float64 `json:"laborCost,omitempty"`
	ShippingCost *float64 `json:"shippingCost,omitempty"`

	// End-customer contact for the commercial proposal (not a Client record).
	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
}

// SelectedFinish is the snapshot of a finish choice stored on a project.
// It is a copy, not a reference: later catalog edits do not propagate.
type SelectedFinish struct {
	Manufacturer string `json:"manufacturer"`
	Finish       Finish `json:"finish"`
	HandleDetail string `json:"handleDetail,omitempty"`
}

// CreateProjectRequest is the payload for creating a project from the
// generation form. ID and timestamp are assigned by the store.
type CreateProjectRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Style          string          `json:"style"`
	SelectedFinish *SelectedFinish `json:"selectedFinish,omitempty"`
	ClientName     string          `json:"clientName,omitempty"`
	ClientPhone    string          `json:"clientPhone,omitempty"`

	// ReferenceImages are optional data URLs (camera captures or uploads)
	// forwarded to the image model alongside the description.
	ReferenceImages []string `json:"referenceImages,omitempty"`
}
