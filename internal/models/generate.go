package models

// RenderRequest asks for an additional photorealistic view of an existing
// project, optionally from a different camera angle.
type RenderRequest struct {
	ProjectID string `json:"projectId"`
	Angle     string `json:"angle,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// FloorPlanRequest asks for a technical 2D floor plan of a project. The
// resulting image replaces any previous floor plan on the project.
type FloorPlanRequest struct {
	ProjectID  string `json:"projectId"`
	Dimensions string `json:"dimensions,omitempty"`
}

// StyleSuggestion is one entry of the structured style-suggestion reply.
type StyleSuggestion struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
}

// CuttingPlanResult is the structured reply of the cutting-plan flow.
type CuttingPlanResult struct {
	Plan             string `json:"plano"`
	OptimizationTips string `json:"dicasOtimizacao"`
}

// CostEstimate is the structured reply of the cost-estimation flow. Values
// are in BRL.
type CostEstimate struct {
	Material float64 `json:"material"`
	Labor    float64 `json:"maoDeObra"`
	Shipping float64 `json:"frete"`
}

// Coordinates is an optional location hint for grounded supplier lookups.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SupplierSearchRequest is a grounded price/availability query, e.g.
// "chapa de MDF 18mm branco TX preço".
type SupplierSearchRequest struct {
	Query    string       `json:"query"`
	Location *Coordinates `json:"location,omitempty"`
}

// SupplierSearchResult carries the grounded answer plus its citations.
type SupplierSearchResult struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Cached    bool       `json:"cached"`
}

// Citation is one source backing a grounded answer.
type Citation struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri"`
}
