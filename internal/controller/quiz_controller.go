package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/service"
)

type QuizController struct {
	QuizService service.QuizService
}

func NewQuizController(quizService service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

type generateQuizRequest struct {
	SkillName     string `json:"skill_name"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
	Nonce         string `json:"nonce"`
}

func (qc *QuizController) GenerateQuiz(c *gin.Context) {
	var req generateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.QuestionCount == 0 {
		req.QuestionCount = 5
	}

	quiz, err := qc.QuizService.GenerateQuiz(c.Request.Context(), req.SkillName, req.Difficulty, req.QuestionCount, req.Nonce)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quizView(quiz))
}

// quizQuestionView is a question without its answer key.
type quizQuestionView struct {
	Question    string   `json:"question"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Options     []string `json:"options"`
}

// quizView strips the correct answers and explanations before a quiz leaves
// the server; they are only revealed through grading.
func quizView(quiz *model.Quiz) gin.H {
	questions := make([]quizQuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, quizQuestionView{
			Question:    q.Question,
			CodeSnippet: q.CodeSnippet,
			Options:     q.Options,
		})
	}
	return gin.H{
		"id":         quiz.ID,
		"skill_name": quiz.SkillName,
		"difficulty": quiz.Difficulty,
		"questions":  questions,
		"created_at": quiz.CreatedAt,
	}
}

func (qc *QuizController) GetQuiz(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := qc.QuizService.GetQuizByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizView(quiz))
}

type submitAttemptRequest struct {
	Answers []int `json:"answers"`
}

func (qc *QuizController) SubmitAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := qc.QuizService.SubmitAttempt(quizID, userID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (qc *QuizController) GetResults(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	results, err := qc.QuizService.GetResultsByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
