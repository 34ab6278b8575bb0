package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/config"
	"skillvouch-backend/internal/llm"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/pkg/logging"
	"skillvouch-backend/utilities"
)

// PassThreshold is the minimum score that verifies a skill.
const PassThreshold = 60

// AttemptResult is returned after grading a quiz submission.
type AttemptResult struct {
	Score  int    `json:"score"`
	Level  string `json:"level"`
	Passed bool   `json:"passed"`
}

type QuizService interface {
	GenerateQuiz(ctx context.Context, skillName, difficulty string, questionCount int, nonce string) (*model.Quiz, error)
	GetQuizByID(id uint) (*model.Quiz, error)
	SubmitAttempt(quizID, userID uint, answers []int) (*AttemptResult, error)
	GetResultsByUser(userID uint) ([]model.QuizResult, error)
	GetLatestTask(userID uint, skillName string) (*model.GenerationTask, error)
	HandleSkillAdded(event SkillAddedEvent)
}

type quizService struct {
	quizRepo  repository.QuizRepository
	userRepo  repository.UserRepository
	generator llm.TextGenerator
	aiCfg     config.AIConfig
}

func NewQuizService(quizRepo repository.QuizRepository, userRepo repository.UserRepository,
	generator llm.TextGenerator, aiCfg config.AIConfig) QuizService {
	return &quizService{
		quizRepo:  quizRepo,
		userRepo:  userRepo,
		generator: generator,
		aiCfg:     aiCfg,
	}
}

// InitQuizEventListeners subscribes quiz generation to skill-add events.
func InitQuizEventListeners(bus *utilities.EventBus, quizService QuizService) {
	bus.Subscribe(EventSkillAdded, func(data interface{}) {
		event, ok := data.(SkillAddedEvent)
		if !ok {
			logging.Warn("invalid payload received for %s", EventSkillAdded)
			return
		}
		quizService.HandleSkillAdded(event)
	})
}

var validDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
	"expert":       true,
}

const (
	minQuestionCount = 1
	maxQuestionCount = 10
)

// rawQuestion mirrors the JSON shape the model is instructed to return.
type rawQuestion struct {
	Question      string   `json:"question"`
	CodeSnippet   string   `json:"codeSnippet"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

var answerIndex = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3}

// GenerateQuiz produces and stores a new quiz for the skill. The external
// model is retried a bounded number of times; there is deliberately no static
// fallback question bank.
func (s *quizService) GenerateQuiz(ctx context.Context, skillName, difficulty string, questionCount int, nonce string) (*model.Quiz, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, fmt.Errorf("%w: skill name is required", apperr.ErrValidation)
	}
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	if difficulty == "" {
		difficulty = "intermediate"
	}
	if !validDifficulties[difficulty] {
		return nil, fmt.Errorf("%w: unknown difficulty %q", apperr.ErrValidation, difficulty)
	}
	if questionCount < minQuestionCount || questionCount > maxQuestionCount {
		return nil, fmt.Errorf("%w: question count must be between %d and %d",
			apperr.ErrValidation, minQuestionCount, maxQuestionCount)
	}

	prompt := buildQuizPrompt(skillName, difficulty, questionCount, nonce)

	var lastErr error
	for attempt := 1; attempt <= s.aiCfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(time.Duration(s.aiCfg.BackoffMillis) * time.Millisecond)
		}

		raw, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			logging.Warn("quiz generation attempt %d/%d for %q failed: %v", attempt, s.aiCfg.MaxAttempts, skillName, err)
			continue
		}

		questions, err := parseQuizResponse(raw, skillName, questionCount, nonce)
		if err != nil {
			lastErr = err
			logging.Warn("quiz generation attempt %d/%d for %q returned invalid payload: %v", attempt, s.aiCfg.MaxAttempts, skillName, err)
			continue
		}

		quiz := &model.Quiz{
			SkillName:  skillName,
			Difficulty: difficulty,
			Questions:  questions,
			CreatedAt:  time.Now(),
		}
		if err := s.quizRepo.CreateQuiz(quiz); err != nil {
			return nil, err
		}
		return quiz, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", apperr.ErrQuizGenerationFailed, s.aiCfg.MaxAttempts, lastErr)
}

func buildQuizPrompt(skillName, difficulty string, questionCount int, nonce string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions about %s at %s level.\n\n", questionCount, skillName, difficulty)
	b.WriteString("You MUST return ONLY valid JSON. Do NOT include explanations. Do NOT include markdown. Return exactly this structure:\n\n")
	b.WriteString(`{
  "questions": [
    {
      "question": "string",
      "codeSnippet": "string",
      "options": ["A", "B", "C", "D"],
      "correctAnswer": "A"
    }
  ]
}` + "\n\n")
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- All questions must be specifically about %s\n", skillName)
	b.WriteString("- Options must be realistic but clearly distinguishable\n")
	b.WriteString("- correctAnswer must be one of A, B, C or D\n")
	fmt.Fprintf(&b, "- Questions must be appropriate for %s level\n", difficulty)
	if nonce != "" {
		fmt.Fprintf(&b, "- Every codeSnippet must contain a comment with the marker %s\n", nonce)
	}
	return b.String()
}

// parseQuizResponse extracts, validates and normalizes the model output.
// Every rule must hold or the whole attempt is rejected.
func parseQuizResponse(raw, skillName string, questionCount int, nonce string) ([]model.QuizQuestion, error) {
	jsonText, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []rawQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %v", err)
	}

	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("empty questions array")
	}
	if len(parsed.Questions) != questionCount {
		return nil, fmt.Errorf("expected %d questions, got %d", questionCount, len(parsed.Questions))
	}

	questions := make([]model.QuizQuestion, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d: missing question text", i+1)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d: must have exactly 4 options", i+1)
		}
		correct, ok := answerIndex[strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))]
		if !ok {
			return nil, fmt.Errorf("question %d: correctAnswer must be A, B, C, or D", i+1)
		}
		// The nonce watermark detects the model replaying cached content.
		if nonce != "" && !strings.Contains(q.CodeSnippet, nonce) {
			return nil, fmt.Errorf("question %d: code snippet is missing the watermark", i+1)
		}

		questions = append(questions, model.QuizQuestion{
			Question:           q.Question,
			CodeSnippet:        q.CodeSnippet,
			Options:            q.Options,
			CorrectAnswerIndex: correct,
			Explanation:        fmt.Sprintf("This question tests your knowledge of %s.", skillName),
		})
	}
	return questions, nil
}

func (s *quizService) GetQuizByID(id uint) (*model.Quiz, error) {
	return s.quizRepo.GetQuizByID(id)
}

// SubmitAttempt grades the answers against the stored key, persists the
// result and transitions the matching known skill's verification state, all
// in one transaction.
func (s *quizService) SubmitAttempt(quizID, userID uint, answers []int) (*AttemptResult, error) {
	quiz, err := s.quizRepo.GetQuizByID(quizID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if len(answers) != len(quiz.Questions) {
		return nil, apperr.ErrInvalidSubmission
	}

	correct := 0
	for i, answer := range answers {
		if answer == quiz.Questions[i].CorrectAnswerIndex {
			correct++
		}
	}
	score := int(math.Round(100 * float64(correct) / float64(len(quiz.Questions))))
	level := LevelForScore(score)
	passed := score >= PassThreshold
	now := time.Now()

	for i := range user.KnownSkills {
		if strings.EqualFold(user.KnownSkills[i].SkillName, quiz.SkillName) {
			if passed {
				user.KnownSkills[i].VerificationStatus = model.VerificationVerified
			} else {
				user.KnownSkills[i].VerificationStatus = model.VerificationFailed
			}
			user.KnownSkills[i].Score = score
			user.KnownSkills[i].Level = level
			user.KnownSkills[i].VerifiedAt = &now
			break
		}
	}

	result := &model.QuizResult{
		UserID:      userID,
		QuizID:      quizID,
		SkillName:   quiz.SkillName,
		Answers:     answers,
		Score:       score,
		Level:       level,
		CompletedAt: now,
	}
	if err := s.quizRepo.SaveResultAndUser(result, user); err != nil {
		return nil, err
	}

	return &AttemptResult{Score: score, Level: level, Passed: passed}, nil
}

// LevelForScore maps a percentage score onto a proficiency level.
func LevelForScore(score int) string {
	switch {
	case score >= 80:
		return model.LevelExpert
	case score >= 60:
		return model.LevelAdvanced
	case score >= 40:
		return model.LevelIntermediate
	default:
		return model.LevelBeginner
	}
}

func (s *quizService) GetResultsByUser(userID uint) ([]model.QuizResult, error) {
	return s.quizRepo.GetResultsByUser(userID)
}

func (s *quizService) GetLatestTask(userID uint, skillName string) (*model.GenerationTask, error) {
	return s.quizRepo.GetLatestTask(userID, skillName)
}

// HandleSkillAdded runs quiz generation for a freshly added skill, recording
// the outcome on an observable task row. Errors are logged, never surfaced to
// the skill-add caller.
func (s *quizService) HandleSkillAdded(event SkillAddedEvent) {
	task := &model.GenerationTask{
		UserID:    event.UserID,
		SkillName: event.SkillName,
		Status:    model.TaskPending,
	}
	if err := s.quizRepo.CreateTask(task); err != nil {
		logging.Error("failed to record generation task for %q: %v", event.SkillName, err)
		return
	}

	// A fresh watermark per task rules out replayed cached quizzes.
	nonce := uuid.NewString()
	quiz, err := s.GenerateQuiz(context.Background(), event.SkillName, difficultyForLevel(event.Level), 5, nonce)
	if err != nil {
		task.Status = model.TaskFailed
		task.Error = err.Error()
		if saveErr := s.quizRepo.SaveTask(task); saveErr != nil {
			logging.Error("failed to update generation task for %q: %v", event.SkillName, saveErr)
		}
		logging.Error("background quiz generation for %q failed: %v", event.SkillName, err)
		return
	}

	task.Status = model.TaskSucceeded
	task.QuizID = &quiz.ID
	if err := s.quizRepo.SaveTask(task); err != nil {
		logging.Error("failed to update generation task for %q: %v", event.SkillName, err)
	}
}

func difficultyForLevel(level string) string {
	switch level {
	case model.LevelExpert:
		return "expert"
	case model.LevelAdvanced:
		return "advanced"
	case model.LevelIntermediate:
		return "intermediate"
	default:
		return "beginner"
	}
}
