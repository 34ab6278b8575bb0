package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/config"
	"skillvouch-backend/internal/llm"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/pkg/logging"
)

type RoadmapService interface {
	GenerateRoadmap(ctx context.Context, userID uint, skillName string) (*model.Roadmap, error)
	GetRoadmap(userID uint, skillName string) (*model.Roadmap, error)
	ExportPDF(userID uint, skillName string) ([]byte, error)
}

type roadmapService struct {
	roadmapRepo repository.RoadmapRepository
	userRepo    repository.UserRepository
	generator   llm.TextGenerator
	aiCfg       config.AIConfig
}

func NewRoadmapService(roadmapRepo repository.RoadmapRepository, userRepo repository.UserRepository,
	generator llm.TextGenerator, aiCfg config.AIConfig) RoadmapService {
	return &roadmapService{
		roadmapRepo: roadmapRepo,
		userRepo:    userRepo,
		generator:   generator,
		aiCfg:       aiCfg,
	}
}

// GenerateRoadmap asks the model for a step-by-step learning plan and stores
// it. Regenerating for the same skill replaces the previous plan.
func (s *roadmapService) GenerateRoadmap(ctx context.Context, userID uint, skillName string) (*model.Roadmap, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, fmt.Errorf("%w: skill name is required", apperr.ErrValidation)
	}
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	prompt := buildRoadmapPrompt(user, skillName)

	var steps []model.RoadmapStep
	var lastErr error
	for attempt := 1; attempt <= s.aiCfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(s.aiCfg.BackoffMillis) * time.Millisecond)
		}
		steps, lastErr = s.requestSteps(ctx, prompt)
		if lastErr == nil {
			break
		}
		logging.Warn("roadmap generation attempt %d/%d for %q failed: %v", attempt, s.aiCfg.MaxAttempts, skillName, lastErr)
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", apperr.ErrQuizGenerationFailed, s.aiCfg.MaxAttempts, lastErr)
	}

	roadmap := &model.Roadmap{
		UserID:      userID,
		SkillName:   skillName,
		Steps:       steps,
		GeneratedAt: time.Now(),
	}
	if err := s.roadmapRepo.UpsertRoadmap(roadmap); err != nil {
		return nil, err
	}
	return roadmap, nil
}

func (s *roadmapService) requestSteps(ctx context.Context, prompt string) ([]model.RoadmapStep, error) {
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	jsonText, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Steps []model.RoadmapStep `json:"steps"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %v", err)
	}
	if len(parsed.Steps) == 0 {
		return nil, fmt.Errorf("empty steps array")
	}
	for i, step := range parsed.Steps {
		if strings.TrimSpace(step.Title) == "" {
			return nil, fmt.Errorf("step %d: missing title", i+1)
		}
	}
	return parsed.Steps, nil
}

func buildRoadmapPrompt(user *model.User, skillName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a step-by-step learning roadmap for %s.\n\n", skillName)
	fmt.Fprintf(&b, "The learner already knows: %s\n\n", joinSkills(user.KnownSkills))
	b.WriteString("You MUST return ONLY valid JSON with exactly this structure:\n\n")
	b.WriteString(`{
  "steps": [
    {
      "title": "string",
      "description": "string",
      "duration": "string",
      "resources": ["string"]
    }
  ]
}` + "\n\n")
	b.WriteString("Provide 5 to 8 steps ordered from fundamentals to advanced topics.\n")
	b.WriteString("duration is a rough estimate such as \"2 weeks\".\n")
	return b.String()
}

func (s *roadmapService) GetRoadmap(userID uint, skillName string) (*model.Roadmap, error) {
	return s.roadmapRepo.GetRoadmap(userID, skillName)
}

// ExportPDF renders the stored roadmap as a downloadable PDF document.
func (s *roadmapService) ExportPDF(userID uint, skillName string) ([]byte, error) {
	roadmap, err := s.roadmapRepo.GetRoadmap(userID, skillName)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Learning Roadmap: %s", roadmap.SkillName))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", roadmap.GeneratedAt.Format("January 2, 2006")))
	pdf.Ln(12)

	for i, step := range roadmap.Steps {
		pdf.SetFont("Arial", "B", 13)
		pdf.MultiCell(0, 8, fmt.Sprintf("Step %d: %s", i+1, step.Title), "", "L", false)
		if step.Duration != "" {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(0, 6, step.Duration)
			pdf.Ln(8)
		}
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, step.Description, "", "L", false)
		if len(step.Resources) > 0 {
			pdf.SetFont("Arial", "", 10)
			for _, resource := range step.Resources {
				pdf.MultiCell(0, 5, "- "+resource, "", "L", false)
			}
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
