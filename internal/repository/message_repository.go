package repository

import (
	"skillvouch-backend/internal/db"
	"skillvouch-backend/internal/model"
)

type MessageRepository interface {
	CreateMessage(msg *model.Message) error
	GetConversation(userA, userB uint) ([]model.Message, error)
	GetMessagesForUser(userID uint) ([]model.Message, error)
	CountUnread(receiverID uint) (int64, error)
	MarkAsRead(senderID, receiverID uint) error
}

type messageRepository struct{}

func NewMessageRepository() MessageRepository {
	return &messageRepository{}
}

func (r *messageRepository) CreateMessage(msg *model.Message) error {
	return db.GetDB().Create(msg).Error
}

func (r *messageRepository) GetConversation(userA, userB uint) ([]model.Message, error) {
	var messages []model.Message
	err := db.GetDB().
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

// GetMessagesForUser returns every message the user sent or received, newest
// first. The service layer folds these into conversation summaries.
func (r *messageRepository) GetMessagesForUser(userID uint) ([]model.Message, error) {
	var messages []model.Message
	err := db.GetDB().
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at desc").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) CountUnread(receiverID uint) (int64, error) {
	var count int64
	err := db.GetDB().Model(&model.Message{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag on every unread message from sender to
// receiver. The flag only ever moves false to true.
func (r *messageRepository) MarkAsRead(senderID, receiverID uint) error {
	return db.GetDB().Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true).Error
}
