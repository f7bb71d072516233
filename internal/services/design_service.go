package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marcenapp/internal/gemini"
	"marcenapp/internal/logging"
	"marcenapp/internal/models"
	"marcenapp/internal/utils"
)

// ErrProjectNotFound is returned by generation flows aimed at an id that no
// longer exists in the store.
var ErrProjectNotFound = errors.New("project not found")

// AIGateway is the slice of the Gemini client the design flows consume.
// Narrowed to an interface so tests can substitute a fake.
type AIGateway interface {
	GenerateImage(ctx context.Context, prompt string, refs []gemini.Image) (*gemini.Image, error)
	GenerateText(ctx context.Context, prompt string, refs []gemini.Image) (string, error)
	GenerateGroundedText(ctx context.Context, query string, location *models.Coordinates) (string, []models.Citation, error)
}

// DesignService orchestrates the generation sub-flows: it builds the prompt,
// calls the gateway, and commits the artifact through the project store.
// A failed generation commits nothing.
type DesignService struct {
	ai       AIGateway
	projects *ProjectStore
	metrics  *Metrics
}

// NewDesignService creates a new design service.
func NewDesignService(ai AIGateway, projects *ProjectStore, metrics *Metrics) *DesignService {
	return &DesignService{ai: ai, projects: projects, metrics: metrics}
}

// CreateProject renders the first 3D view for the form payload and, only on
// success, persists the new project. Returns the refreshed project list.
func (s *DesignService) CreateProject(ctx context.Context, req models.CreateProjectRequest) ([]models.Project, error) {
	refs, err := decodeReferenceImages(req.ReferenceImages)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	image, err := s.ai.GenerateImage(ctx, renderPrompt(req.Description, req.Style, req.SelectedFinish), refs)
	s.metrics.observe("render", start, err)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.Create(ctx, models.Project{
		Name:           req.Name,
		Description:    req.Description,
		Style:          req.Style,
		SelectedFinish: req.SelectedFinish,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		Views3D:        []string{utils.EncodeDataURL(image.MIMEType, image.Data)},
	})
	if err == nil && len(projects) > 0 {
		logging.WithProject(projects[0].ID).Info("project created", "name", req.Name)
	}
	return projects, err
}

// AddView renders an additional 3D view and appends it to the project. The
// latest existing view rides along as a reference so the model keeps the
// piece consistent.
func (s *DesignService) AddView(ctx context.Context, req models.RenderRequest) (*models.Project, error) {
	project, err := s.loadProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	var refs []gemini.Image
	if len(project.Views3D) > 0 {
		last := project.Views3D[len(project.Views3D)-1]
		if mimeType, data, err := utils.ParseDataURL(last); err == nil {
			refs = append(refs, gemini.Image{MIMEType: mimeType, Data: data})
		}
	}

	start := time.Now()
	image, err := s.ai.GenerateImage(ctx, additionalViewPrompt(project, req.Angle, req.Notes), refs)
	s.metrics.observe("render", start, err)
	if err != nil {
		return nil, err
	}

	return s.projects.AppendView(ctx, project.ID, utils.EncodeDataURL(image.MIMEType, image.Data))
}

// GenerateFloorPlan renders a 2D floor plan and stores it on the project,
// replacing any previous plan.
func (s *DesignService) GenerateFloorPlan(ctx context.Context, req models.FloorPlanRequest) (*models.Project, error) {
	project, err := s.loadProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	image, err := s.ai.GenerateImage(ctx, floorPlanPrompt(project, req.Dimensions), nil)
	s.metrics.observe("floorplan", start, err)
	if err != nil {
		return nil, err
	}

	return s.projects.PartialUpdate(ctx, project.ID, map[string]any{
		"floorPlanImage": utils.EncodeDataURL(image.MIMEType, image.Data),
	})
}

// GenerateBOM derives the bill of materials and stores it on the project.
func (s *DesignService) GenerateBOM(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := s.ai.GenerateText(ctx, bomPrompt(project), nil)
	s.metrics.observe("bom", start, err)
	if err != nil {
		return nil, err
	}

	return s.projects.PartialUpdate(ctx, project.ID, map[string]any{"bomText": text})
}

// GenerateCuttingPlan derives the structured cutting plan, renders its
// diagram, and stores all three artifacts on the project in one patch.
func (s *DesignService) GenerateCuttingPlan(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.ai.GenerateText(ctx, cuttingPlanPrompt(project), nil)
	s.metrics.observe("cutting_plan", start, err)
	if err != nil {
		return nil, err
	}

	result, err := gemini.ParseJSON[models.CuttingPlanResult](raw)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	diagram, err := s.ai.GenerateImage(ctx, cuttingDiagramPrompt(project, result.Plan), nil)
	s.metrics.observe("cutting_diagram", start, err)
	if err != nil {
		return nil, err
	}

	logging.WithProject(project.ID).Debug("cutting plan parsed", "plan_bytes", len(result.Plan))

	return s.projects.PartialUpdate(ctx, project.ID, map[string]any{
		"cuttingPlanText":    result.Plan,
		"cuttingPlanDiagram": utils.EncodeDataURL(diagram.MIMEType, diagram.Data),
		"optimizationTips":   result.OptimizationTips,
	})
}

// GenerateAssembly derives step-by-step assembly instructions and stores
// them on the project.
func (s *DesignService) GenerateAssembly(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := s.ai.GenerateText(ctx, assemblyPrompt(project), nil)
	s.metrics.observe("assembly", start, err)
	if err != nil {
		return nil, err
	}

	return s.projects.PartialUpdate(ctx, project.ID, map[string]any{"assemblyText": text})
}

// SuggestStyles asks for style ideas matching a free-text description.
// Nothing is persisted; the suggestions feed the generation form.
func (s *DesignService) SuggestStyles(ctx context.Context, description string) ([]models.StyleSuggestion, error) {
	start := time.Now()
	raw, err := s.ai.GenerateText(ctx, stylesPrompt(description), nil)
	s.metrics.observe("styles", start, err)
	if err != nil {
		return nil, err
	}

	return gemini.ParseJSON[[]models.StyleSuggestion](raw)
}

// EstimateCosts derives material/labor/shipping estimates and stores them on
// the project.
func (s *DesignService) EstimateCosts(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.ai.GenerateText(ctx, costsPrompt(project), nil)
	s.metrics.observe("costs", start, err)
	if err != nil {
		return nil, err
	}

	estimate, err := gemini.ParseJSON[models.CostEstimate](raw)
	if err != nil {
		return nil, err
	}

	return s.projects.PartialUpdate(ctx, project.ID, map[string]any{
		"materialCost": estimate.Material,
		"laborCost":    estimate.Labor,
		"shippingCost": estimate.Shipping,
	})
}

// GenerateProposal writes the commercial proposal in Markdown. The proposal
// is returned to the caller, not persisted.
func (s *DesignService) GenerateProposal(ctx context.Context, projectID string) (string, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, err := s.ai.GenerateText(ctx, proposalPrompt(project), nil)
	s.metrics.observe("proposal", start, err)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *DesignService) loadProject(ctx context.Context, id string) (*models.Project, error) {
	if id == "" {
		return nil, ErrProjectNotFound
	}
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func decodeReferenceImages(dataURLs []string) ([]gemini.Image, error) {
	var refs []gemini.Image
	for _, dataURL := range dataURLs {
		mimeType, data, err := utils.ParseDataURL(dataURL)
		if err != nil {
			return nil, fmt.Errorf("invalid reference image: %w", err)
		}
		refs = append(refs, gemini.Image{MIMEType: mimeType, Data: data})
	}
	return refs, nil
}
