package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/db"
	"skillvouch-backend/internal/model"
)

type ExchangeRepository interface {
	CreateRequest(req *model.ExchangeRequest) error
	GetRequestByID(id uint) (*model.ExchangeRequest, error)
	GetRequestsForUser(userID uint) ([]model.ExchangeRequest, error)
	SaveRequest(req *model.ExchangeRequest) error
	UpsertFeedback(fb *model.ExchangeFeedback) error
	GetFeedbackForUser(toUserID uint) ([]model.ExchangeFeedback, error)
	AverageStars(toUserID uint) (float64, int64, error)
}

type exchangeRepository struct{}

func NewExchangeRepository() ExchangeRepository {
	return &exchangeRepository{}
}

func (r *exchangeRepository) CreateRequest(req *model.ExchangeRequest) error {
	return db.GetDB().Create(req).Error
}

func (r *exchangeRepository) GetRequestByID(id uint) (*model.ExchangeRequest, error) {
	var req model.ExchangeRequest
	err := db.GetDB().Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *exchangeRepository) GetRequestsForUser(userID uint) ([]model.ExchangeRequest, error) {
	var requests []model.ExchangeRequest
	err := db.GetDB().
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

func (r *exchangeRepository) SaveRequest(req *model.ExchangeRequest) error {
	return db.GetDB().Save(req).Error
}

// UpsertFeedback overwrites any prior feedback from the same author on the
// same request instead of creating a duplicate row.
func (r *exchangeRepository) UpsertFeedback(fb *model.ExchangeFeedback) error {
	return db.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "request_id"}, {Name: "from_user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stars", "comment", "created_at",
		}),
	}).Create(fb).Error
}

func (r *exchangeRepository) GetFeedbackForUser(toUserID uint) ([]model.ExchangeFeedback, error) {
	var feedback []model.ExchangeFeedback
	err := db.GetDB().Where("to_user_id = ?", toUserID).Order("created_at desc").Find(&feedback).Error
	return feedback, err
}

// AverageStars returns the mean of all stars received by the user and the
// number of feedback rows it was computed from.
func (r *exchangeRepository) AverageStars(toUserID uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := db.GetDB().Model(&model.ExchangeFeedback{}).
		Select("COALESCE(AVG(stars), 0) AS avg, COUNT(*) AS count").
		Where("to_user_id = ?", toUserID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}
