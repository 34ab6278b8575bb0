package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/service"
)

type RoadmapController struct {
	RoadmapService service.RoadmapService
}

func NewRoadmapController(roadmapService service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

type generateRoadmapRequest struct {
	SkillName string `json:"skill_name"`
}

func (rc *RoadmapController) GenerateRoadmap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req generateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	roadmap, err := rc.RoadmapService.GenerateRoadmap(c.Request.Context(), userID, req.SkillName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, roadmap)
}

func (rc *RoadmapController) GetRoadmap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	roadmap, err := rc.RoadmapService.GetRoadmap(userID, c.Param("skillName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

// ExportPDF streams the stored roadmap as a PDF download.
func (rc *RoadmapController) ExportPDF(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	skillName := c.Param("skillName")

	data, err := rc.RoadmapService.ExportPDF(userID, skillName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", skillName+"-roadmap.pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
