package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/service"
)

type SkillController struct {
	SkillService service.SkillService
	QuizService  service.QuizService
}

func NewSkillController(skillService service.SkillService, quizService service.QuizService) *SkillController {
	return &SkillController{SkillService: skillService, QuizService: quizService}
}

type addKnownSkillRequest struct {
	SkillName string `json:"skill_name"`
	Level     string `json:"level"`
}

func (sc *SkillController) AddKnownSkill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req addKnownSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := sc.SkillService.AddKnownSkill(userID, req.SkillName, req.Level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type addLearningGoalRequest struct {
	SkillName string `json:"skill_name"`
	Priority  string `json:"priority"`
}

func (sc *SkillController) AddSkillToLearn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req addLearningGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := sc.SkillService.AddSkillToLearn(userID, req.SkillName, req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (sc *SkillController) RemoveKnownSkill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := sc.SkillService.RemoveKnownSkill(userID, c.Param("skillName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (sc *SkillController) RemoveSkillToLearn(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := sc.SkillService.RemoveSkillToLearn(userID, c.Param("skillName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetGenerationTask exposes the status of the quiz generation triggered by the
// most recent add of the named skill.
func (sc *SkillController) GetGenerationTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := sc.QuizService.GetLatestTask(userID, c.Param("skillName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
