package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/db"
	"skillvouch-backend/internal/model"
)

type QuizRepository interface {
	CreateQuiz(quiz *model.Quiz) error
	GetQuizByID(id uint) (*model.Quiz, error)
	SaveResultAndUser(result *model.QuizResult, user *model.User) error
	GetResultsByUser(userID uint) ([]model.QuizResult, error)
	CreateTask(task *model.GenerationTask) error
	SaveTask(task *model.GenerationTask) error
	GetLatestTask(userID uint, skillName string) (*model.GenerationTask, error)
}

type quizRepository struct{}

func NewQuizRepository() QuizRepository {
	return &quizRepository{}
}

func (r *quizRepository) CreateQuiz(quiz *model.Quiz) error {
	return db.GetDB().Create(quiz).Error
}

func (r *quizRepository) GetQuizByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := db.GetDB().Where("id = ?", id).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// SaveResultAndUser upserts the quiz result keyed by (user, skill) and
// persists the user's updated skill profile in one transaction, so a graded
// attempt can never be recorded without its verification side effect.
func (r *quizRepository) SaveResultAndUser(result *model.QuizResult, user *model.User) error {
	return db.GetDB().Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quiz_id", "answers", "score", "level", "completed_at",
			}),
		}).Create(result).Error
		if err != nil {
			return err
		}
		return tx.Save(user).Error
	})
}

func (r *quizRepository) GetResultsByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := db.GetDB().Where("user_id = ?", userID).Order("completed_at desc").Find(&results).Error
	return results, err
}

func (r *quizRepository) CreateTask(task *model.GenerationTask) error {
	return db.GetDB().Create(task).Error
}

func (r *quizRepository) SaveTask(task *model.GenerationTask) error {
	return db.GetDB().Save(task).Error
}

func (r *quizRepository) GetLatestTask(userID uint, skillName string) (*model.GenerationTask, error) {
	var task model.GenerationTask
	err := db.GetDB().
		Where("user_id = ? AND LOWER(skill_name) = LOWER(?)", userID, skillName).
		Order("created_at desc").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}
