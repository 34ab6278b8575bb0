package service

import (
	"fmt"
	"strings"
	"time"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
	"skillvouch-backend/internal/repository"
	"skillvouch-backend/pkg/logging"
)

type ExchangeService interface {
	CreateRequest(fromUserID uint, input ExchangeRequestInput) (*model.ExchangeRequest, error)
	GetRequestsForUser(userID uint) ([]model.ExchangeRequest, error)
	TransitionRequest(requestID, actorID uint, newStatus string) (*model.ExchangeRequest, error)
	SubmitFeedback(requestID, fromUserID uint, stars int, comment string) (*model.ExchangeFeedback, error)
	GetFeedbackForUser(userID uint) ([]model.ExchangeFeedback, error)
}

// ExchangeRequestInput carries the fields of a new exchange proposal.
type ExchangeRequestInput struct {
	ToUserID       uint   `json:"to_user_id"`
	OfferedSkill   string `json:"offered_skill"`
	RequestedSkill string `json:"requested_skill"`
	Message        string `json:"message"`
}

type exchangeService struct {
	exchangeRepo repository.ExchangeRepository
	userRepo     repository.UserRepository
}

func NewExchangeService(exchangeRepo repository.ExchangeRepository, userRepo repository.UserRepository) ExchangeService {
	return &exchangeService{exchangeRepo: exchangeRepo, userRepo: userRepo}
}

func (s *exchangeService) CreateRequest(fromUserID uint, input ExchangeRequestInput) (*model.ExchangeRequest, error) {
	if input.ToUserID == fromUserID {
		return nil, apperr.ErrSelfRequest
	}
	if strings.TrimSpace(input.OfferedSkill) == "" ||
		strings.TrimSpace(input.RequestedSkill) == "" ||
		strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: offered skill, requested skill and message are required", apperr.ErrValidation)
	}

	if _, err := s.userRepo.GetUserByID(input.ToUserID); err != nil {
		return nil, err
	}

	req := &model.ExchangeRequest{
		FromUserID:     fromUserID,
		ToUserID:       input.ToUserID,
		OfferedSkill:   strings.TrimSpace(input.OfferedSkill),
		RequestedSkill: strings.TrimSpace(input.RequestedSkill),
		Message:        strings.TrimSpace(input.Message),
		Status:         model.StatusPending,
	}
	if err := s.exchangeRepo.CreateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *exchangeService) GetRequestsForUser(userID uint) ([]model.ExchangeRequest, error) {
	return s.exchangeRepo.GetRequestsForUser(userID)
}

// allowedTransitions is the request state machine. Rejected and completed are
// terminal.
var allowedTransitions = map[string][]string{
	model.StatusPending:  {model.StatusAccepted, model.StatusRejected},
	model.StatusAccepted: {model.StatusCompleted},
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionRequest moves a request through its lifecycle. Accept and reject
// belong to the recipient; either participant may complete an accepted
// exchange.
func (s *exchangeService) TransitionRequest(requestID, actorID uint, newStatus string) (*model.ExchangeRequest, error) {
	req, err := s.exchangeRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}

	switch newStatus {
	case model.StatusAccepted, model.StatusRejected:
		if req.ToUserID != actorID {
			return nil, fmt.Errorf("%w: only the recipient can respond to a request", apperr.ErrForbidden)
		}
	case model.StatusCompleted:
		if req.FromUserID != actorID && req.ToUserID != actorID {
			return nil, fmt.Errorf("%w: only a participant can complete an exchange", apperr.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, newStatus)
	}

	if !transitionAllowed(req.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move request from %q to %q", apperr.ErrInvalidTransition, req.Status, newStatus)
	}

	req.Status = newStatus
	if newStatus == model.StatusCompleted && req.CompletedAt == nil {
		now := time.Now()
		req.CompletedAt = &now
	}

	if err := s.exchangeRepo.SaveRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// SubmitFeedback records one rating per participant per completed exchange.
// Resubmitting replaces the earlier rating, and the recipient's aggregate
// rating is recomputed from all feedback they ever received.
func (s *exchangeService) SubmitFeedback(requestID, fromUserID uint, stars int, comment string) (*model.ExchangeFeedback, error) {
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: stars must be between 1 and 5", apperr.ErrValidation)
	}

	req, err := s.exchangeRepo.GetRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.FromUserID != fromUserID && req.ToUserID != fromUserID {
		return nil, fmt.Errorf("%w: only a participant can rate an exchange", apperr.ErrForbidden)
	}
	if req.Status != model.StatusCompleted {
		return nil, apperr.ErrRequestNotCompleted
	}

	toUserID := req.FromUserID
	if fromUserID == req.FromUserID {
		toUserID = req.ToUserID
	}

	fb := &model.ExchangeFeedback{
		RequestID:  requestID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Stars:      stars,
		Comment:    comment,
		CreatedAt:  time.Now(),
	}
	if err := s.exchangeRepo.UpsertFeedback(fb); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(toUserID); err != nil {
		// The feedback row is already stored; a stale aggregate is
		// recoverable on the next submission.
		logging.Error("failed to recompute rating for user %d: %v", toUserID, err)
	}

	return fb, nil
}

func (s *exchangeService) recomputeRating(userID uint) error {
	avg, count, err := s.exchangeRepo.AverageStars(userID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Rating = avg
	return s.userRepo.SaveUser(user)
}

func (s *exchangeService) GetFeedbackForUser(userID uint) ([]model.ExchangeFeedback, error) {
	return s.exchangeRepo.GetFeedbackForUser(userID)
}
