package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/db"
	"skillvouch-backend/internal/model"
)

type RoadmapRepository interface {
	UpsertRoadmap(roadmap *model.Roadmap) error
	GetRoadmap(userID uint, skillName string) (*model.Roadmap, error)
}

type roadmapRepository struct{}

func NewRoadmapRepository() RoadmapRepository {
	return &roadmapRepository{}
}

func (r *roadmapRepository) UpsertRoadmap(roadmap *model.Roadmap) error {
	return db.GetDB().Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"steps", "generated_at",
		}),
	}).Create(roadmap).Error
}

func (r *roadmapRepository) GetRoadmap(userID uint, skillName string) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := db.GetDB().
		Where("user_id = ? AND LOWER(skill_name) = LOWER(?)", userID, skillName).
		First(&roadmap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &roadmap, nil
}
