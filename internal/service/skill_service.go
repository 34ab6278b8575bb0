package service

import (
	"fmt"
	"strings"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/utilities"
)

// EventSkillAdded is published after a known skill is appended to a profile.
// The quiz service listens and generates a verification quiz asynchronously;
// its failure never fails the skill-add operation.
const EventSkillAdded = "skill.known_added"

// SkillAddedEvent is the payload published on EventSkillAdded.
type SkillAddedEvent struct {
	UserID    uint
	SkillName string
	Level     string
}

type SkillService interface {
	AddKnownSkill(userID uint, skillName, level string) (*model.User, error)
	AddSkillToLearn(userID uint, skillName, priority string) (*model.User, error)
	RemoveKnownSkill(userID uint, skillName string) (*model.User, error)
	RemoveSkillToLearn(userID uint, skillName string) (*model.User, error)
}

type skillService struct {
	userRepo repository.UserRepository
	bus      *utilities.EventBus
}

func NewSkillService(userRepo repository.UserRepository, bus *utilities.EventBus) SkillService {
	return &skillService{userRepo: userRepo, bus: bus}
}

var validLevels = map[string]bool{
	model.LevelBeginner:     true,
	model.LevelIntermediate: true,
	model.LevelAdvanced:     true,
	model.LevelExpert:       true,
}

var validPriorities = map[string]bool{
	"Low":    true,
	"Medium": true,
	"High":   true,
}

// AddKnownSkill appends a pending skill to the user's profile and triggers
// quiz generation for it.
func (s *skillService) AddKnownSkill(userID uint, skillName, level string) (*model.User, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, fmt.Errorf("%w: skill name is required", apperr.ErrValidation)
	}
	if level == "" {
		level = model.LevelBeginner
	}
	if !validLevels[level] {
		return nil, fmt.Errorf("%w: unknown skill level %q", apperr.ErrValidation, level)
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	for _, skill := range user.KnownSkills {
		if strings.EqualFold(skill.SkillName, skillName) {
			return nil, apperr.ErrDuplicateSkill
		}
	}

	user.KnownSkills = append(user.KnownSkills, model.KnownSkill{
		SkillName:          skillName,
		Level:              level,
		VerificationStatus: model.VerificationPending,
		Score:              0,
	})

	if err := s.userRepo.SaveUser(user); err != nil {
		return nil, err
	}

	s.bus.Publish(EventSkillAdded, SkillAddedEvent{
		UserID:    userID,
		SkillName: skillName,
		Level:     level,
	})

	user.Password = ""
	return user, nil
}

// AddSkillToLearn appends a learning goal. The namespace is independent from
// known skills; the same name may appear in both lists.
func (s *skillService) AddSkillToLearn(userID uint, skillName, priority string) (*model.User, error) {
	skillName = strings.TrimSpace(skillName)
	if skillName == "" {
		return nil, fmt.Errorf("%w: skill name is required", apperr.ErrValidation)
	}
	if priority == "" {
		priority = "Medium"
	}
	if !validPriorities[priority] {
		return nil, fmt.Errorf("%w: unknown priority %q", apperr.ErrValidation, priority)
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	for _, goal := range user.SkillsToLearn {
		if strings.EqualFold(goal.SkillName, skillName) {
			return nil, apperr.ErrDuplicateSkill
		}
	}

	user.SkillsToLearn = append(user.SkillsToLearn, model.LearningGoal{
		SkillName: skillName,
		Priority:  priority,
	})

	if err := s.userRepo.SaveUser(user); err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// RemoveKnownSkill is idempotent: removing a missing skill returns the user
// unchanged.
func (s *skillService) RemoveKnownSkill(userID uint, skillName string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	kept := user.KnownSkills[:0]
	removed := false
	for _, skill := range user.KnownSkills {
		if strings.EqualFold(skill.SkillName, skillName) {
			removed = true
			continue
		}
		kept = append(kept, skill)
	}

	if removed {
		user.KnownSkills = kept
		if err := s.userRepo.SaveUser(user); err != nil {
			return nil, err
		}
	}
	user.Password = ""
	return user, nil
}

// RemoveSkillToLearn is idempotent, mirroring RemoveKnownSkill.
func (s *skillService) RemoveSkillToLearn(userID uint, skillName string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	kept := user.SkillsToLearn[:0]
	removed := false
	for _, goal := range user.SkillsToLearn {
		if strings.EqualFold(goal.SkillName, skillName) {
			removed = true
			continue
		}
		kept = append(kept, goal)
	}

	if removed {
		user.SkillsToLearn = kept
		if err := s.userRepo.SaveUser(user); err != nil {
			return nil, err
		}
	}
	user.Password = ""
	return user, nil
}
