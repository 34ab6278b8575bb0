package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/service"
)

type MessageController struct {
	MessageService service.MessageService
}

func NewMessageController(messageService service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

type sendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg, err := mc.MessageService.SendMessage(userID, req.ReceiverID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (mc *MessageController) GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := mc.MessageService.GetConversations(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (mc *MessageController) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherUserID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	messages, err := mc.MessageService.GetConversation(userID, otherUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (mc *MessageController) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := mc.MessageService.UnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkAsRead marks every message from the given sender to the authenticated
// user as read.
func (mc *MessageController) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	senderID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := mc.MessageService.MarkAsRead(userID, senderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
