package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/service"
)

type MatchController struct {
	MatchService service.MatchService
}

func NewMatchController(matchService service.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// FindMatches returns ranked peer recommendations for the authenticated user.
// With ?strict=true only candidates holding a verified matching skill are
// considered.
func (mc *MatchController) FindMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	strict := c.Query("strict") == "true"

	matches, err := mc.MatchService.FindMatches(c.Request.Context(), userID, strict)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}
