package service

import (
	"fmt"
	"strings"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
)

type MessageService interface {
	SendMessage(senderID, receiverID uint, content string) (*model.Message, error)
	GetConversation(requesterID, otherUserID uint) ([]model.Message, error)
	GetConversations(userID uint) ([]model.Conversation, error)
	UnreadCount(userID uint) (int64, error)
	MarkAsRead(requesterID, senderID uint) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) MessageService {
	return &messageService{messageRepo: messageRepo, userRepo: userRepo}
}

func (s *messageService) SendMessage(senderID, receiverID uint, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", apperr.ErrValidation)
	}
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot message yourself", apperr.ErrValidation)
	}
	if _, err := s.userRepo.GetUserByID(receiverID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetConversation returns the full thread between the requester and another
// user, oldest first. Marking the thread read is a separate call.
func (s *messageService) GetConversation(requesterID, otherUserID uint) ([]model.Message, error) {
	if _, err := s.userRepo.GetUserByID(otherUserID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetConversation(requesterID, otherUserID)
}

// GetConversations folds the user's messages into one summary per
// counterpart, ordered by most recent activity.
func (s *messageService) GetConversations(userID uint) ([]model.Conversation, error) {
	messages, err := s.messageRepo.GetMessagesForUser(userID)
	if err != nil {
		return nil, err
	}

	// Messages arrive newest first, so the first message seen for a
	// counterpart is the latest one.
	order := make([]uint, 0)
	byUser := make(map[uint]*model.Conversation)
	for _, msg := range messages {
		other := msg.SenderID
		if other == userID {
			other = msg.ReceiverID
		}

		conv, ok := byUser[other]
		if !ok {
			conv = &model.Conversation{OtherUserID: other, LastMessage: msg}
			byUser[other] = conv
			order = append(order, other)
		}
		if msg.ReceiverID == userID && !msg.Read {
			conv.UnreadCount++
		}
	}

	conversations := make([]model.Conversation, 0, len(order))
	for _, other := range order {
		conversations = append(conversations, *byUser[other])
	}
	return conversations, nil
}

func (s *messageService) UnreadCount(userID uint) (int64, error) {
	return s.messageRepo.CountUnread(userID)
}

// MarkAsRead marks every message from senderID to the requester as read.
func (s *messageService) MarkAsRead(requesterID, senderID uint) error {
	return s.messageRepo.MarkAsRead(senderID, requesterID)
}
