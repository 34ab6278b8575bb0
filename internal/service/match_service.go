package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"skillvouch-backend/internal/config"
	"skillvouch-backend/internal/llm"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/pkg/logging"
)

type MatchService interface {
	FindMatches(ctx context.Context, userID uint, strict bool) ([]model.MatchRecommendation, error)
}

type matchService struct {
	userRepo  repository.UserRepository
	generator llm.TextGenerator
	cfg       config.MatchingConfig
}

func NewMatchService(userRepo repository.UserRepository, generator llm.TextGenerator, cfg config.MatchingConfig) MatchService {
	return &matchService{userRepo: userRepo, generator: generator, cfg: cfg}
}

// externalAnalysis is the JSON shape requested from the model per candidate.
type externalAnalysis struct {
	Score           int      `json:"score"`
	Reasoning       string   `json:"reasoning"`
	CommonInterests []string `json:"commonInterests"`
}

const fallbackReasoning = "High compatibility based on skill matching."

// FindMatches ranks every other user against the requester. A deterministic
// base score shortlists the top candidates; the external model then refines
// each shortlisted score. A model failure for one candidate falls back to its
// base score and never fails the whole request.
func (s *matchService) FindMatches(ctx context.Context, userID uint, strict bool) ([]model.MatchRecommendation, error) {
	requester, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(requester.SkillsToLearn))
	for _, goal := range requester.SkillsToLearn {
		wanted[strings.ToLower(goal.SkillName)] = true
	}

	type scored struct {
		user    model.User
		base    int
		matched []string
	}

	candidates := make([]scored, 0, len(users))
	for _, candidate := range users {
		if candidate.ID == userID {
			continue
		}

		var matchedSkills []string
		hasVerifiedMatch := false
		for _, skill := range candidate.KnownSkills {
			if !wanted[strings.ToLower(skill.SkillName)] {
				continue
			}
			matchedSkills = append(matchedSkills, skill.SkillName)
			if skill.VerificationStatus == model.VerificationVerified {
				hasVerifiedMatch = true
			}
		}

		if strict && !hasVerifiedMatch {
			continue
		}

		candidate.Password = ""
		candidates = append(candidates, scored{
			user:    candidate,
			base:    s.baseScore(len(matchedSkills), candidate.Rating),
			matched: matchedSkills,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].base != candidates[j].base {
			return candidates[i].base > candidates[j].base
		}
		return candidates[i].user.Rating > candidates[j].user.Rating
	})
	if len(candidates) > s.cfg.TopN {
		candidates = candidates[:s.cfg.TopN]
	}

	recommendations := make([]model.MatchRecommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := model.MatchRecommendation{
			User:            c.user,
			MatchScore:      c.base,
			Reasoning:       fallbackReasoning,
			CommonInterests: c.matched,
		}

		analysis, err := s.analyzeCandidate(ctx, requester, &c.user, c.matched)
		if err != nil {
			logging.Warn("match analysis for user %d degraded to base score: %v", c.user.ID, err)
		} else {
			blended := s.cfg.BaseWeight*float64(c.base) + s.cfg.AIWeight*float64(analysis.Score)
			rec.MatchScore = int(math.Round(blended))
			if analysis.Reasoning != "" {
				rec.Reasoning = analysis.Reasoning
			}
			if len(analysis.CommonInterests) > 0 {
				rec.CommonInterests = analysis.CommonInterests
			}
		}

		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].MatchScore != recommendations[j].MatchScore {
			return recommendations[i].MatchScore > recommendations[j].MatchScore
		}
		return recommendations[i].User.Rating > recommendations[j].User.Rating
	})

	return recommendations, nil
}

// baseScore is the deterministic heuristic: points per matched skill plus a
// capped rating bonus, truncated and clamped to 100.
func (s *matchService) baseScore(matchedCount int, rating float64) int {
	ratingBonus := math.Min(s.cfg.RatingCap, rating*s.cfg.RatingFactor)
	score := float64(matchedCount*s.cfg.SkillPoints) + ratingBonus
	if score > 100 {
		score = 100
	}
	return int(score)
}

func (s *matchService) analyzeCandidate(ctx context.Context, requester, candidate *model.User, matched []string) (*externalAnalysis, error) {
	prompt := buildMatchPrompt(requester, candidate, matched)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	jsonText, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var analysis externalAnalysis
	if err := json.Unmarshal([]byte(jsonText), &analysis); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %v", err)
	}
	if analysis.Score < 0 || analysis.Score > 100 {
		return nil, fmt.Errorf("analysis score %d out of range", analysis.Score)
	}
	return &analysis, nil
}

func buildMatchPrompt(requester, candidate *model.User, matched []string) string {
	var b strings.Builder
	b.WriteString("Rate the compatibility of two users on a skill-exchange platform.\n\n")
	fmt.Fprintf(&b, "Learner wants to learn: %s\n", joinGoals(requester.SkillsToLearn))
	fmt.Fprintf(&b, "Candidate teaches: %s\n", joinSkills(candidate.KnownSkills))
	fmt.Fprintf(&b, "Candidate wants to learn: %s\n", joinGoals(candidate.SkillsToLearn))
	fmt.Fprintf(&b, "Candidate rating: %.1f/5\n", candidate.Rating)
	fmt.Fprintf(&b, "Directly matched skills: %s\n\n", strings.Join(matched, ", "))
	b.WriteString("You MUST return ONLY valid JSON with exactly this structure:\n\n")
	b.WriteString(`{"score": 0, "reasoning": "string", "commonInterests": ["string"]}` + "\n\n")
	b.WriteString("score is an integer from 0 to 100. reasoning is one or two sentences.\n")
	return b.String()
}

func joinSkills(skills []model.KnownSkill) string {
	if len(skills) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		parts = append(parts, fmt.Sprintf("%s (%s, %s)", s.SkillName, s.Level, s.VerificationStatus))
	}
	return strings.Join(parts, ", ")
}

func joinGoals(goals []model.LearningGoal) string {
	if len(goals) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		parts = append(parts, g.SkillName)
	}
	return strings.Join(parts, ", ")
}
