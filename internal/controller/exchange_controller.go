package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/service"
)

type ExchangeController struct {
	ExchangeService service.ExchangeService
}

func NewExchangeController(exchangeService service.ExchangeService) *ExchangeController {
	return &ExchangeController{ExchangeService: exchangeService}
}

func (ec *ExchangeController) CreateRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.ExchangeRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req, err := ec.ExchangeService.CreateRequest(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (ec *ExchangeController) ListRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	requests, err := ec.ExchangeService.GetRequestsForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (ec *ExchangeController) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	updated, err := ec.ExchangeService.TransitionRequest(requestID, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type feedbackRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

func (ec *ExchangeController) SubmitFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fb, err := ec.ExchangeService.SubmitFeedback(requestID, userID, req.Stars, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (ec *ExchangeController) GetFeedback(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	feedback, err := ec.ExchangeService.GetFeedbackForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}
