package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
)

func newExchangeFixture(t *testing.T) (*fakeUserRepo, *fakeExchangeRepo, ExchangeService, *model.User, *model.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	exchangeRepo := newFakeExchangeRepo()
	svc := NewExchangeService(exchangeRepo, userRepo)

	alice := &model.User{Name: "Alice", Email: "alice@example.com", Rating: 5}
	bob := &model.User{Name: "Bob", Email: "bob@example.com", Rating: 5}
	require.NoError(t, userRepo.CreateUser(alice))
	require.NoError(t, userRepo.CreateUser(bob))
	return userRepo, exchangeRepo, svc, alice, bob
}

func validInput(to uint) ExchangeRequestInput {
	return ExchangeRequestInput{
		ToUserID:       to,
		OfferedSkill:   "Go",
		RequestedSkill: "Rust",
		Message:        "Trade?",
	}
}

func TestCreateRequest(t *testing.T) {
	_, _, svc, alice, bob := newExchangeFixture(t)

	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, alice.ID, req.FromUserID)
	assert.Equal(t, bob.ID, req.ToUserID)
	assert.Nil(t, req.CompletedAt)
}

func TestCreateRequestValidation(t *testing.T) {
	_, _, svc, alice, bob := newExchangeFixture(t)

	_, err := svc.CreateRequest(alice.ID, validInput(alice.ID))
	assert.ErrorIs(t, err, apperr.ErrSelfRequest)

	input := validInput(bob.ID)
	input.Message = "  "
	_, err = svc.CreateRequest(alice.ID, input)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateRequest(alice.ID, validInput(999))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTransitionRequestLifecycle(t *testing.T) {
	_, _, svc, alice, bob := newExchangeFixture(t)
	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)

	accepted, err := svc.TransitionRequest(req.ID, bob.ID, model.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, accepted.Status)
	assert.Nil(t, accepted.CompletedAt)

	completed, err := svc.TransitionRequest(req.ID, alice.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
}

func TestTransitionRequestInvalidMoves(t *testing.T) {
	_, _, svc, alice, bob := newExchangeFixture(t)
	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)

	// Pending cannot jump straight to completed.
	_, err = svc.TransitionRequest(req.ID, bob.ID, model.StatusCompleted)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = svc.TransitionRequest(req.ID, bob.ID, model.StatusRejected)
	require.NoError(t, err)

	// Rejected is terminal.
	_, err = svc.TransitionRequest(req.ID, bob.ID, model.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = svc.TransitionRequest(req.ID, bob.ID, "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.TransitionRequest(999, bob.ID, model.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
}

func TestTransitionRequestAuthorization(t *testing.T) {
	_, _, svc, alice, bob := newExchangeFixture(t)
	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)

	// The sender cannot accept their own request.
	_, err = svc.TransitionRequest(req.ID, alice.ID, model.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func completeExchange(t *testing.T, svc ExchangeService, reqID, recipientID uint) {
	t.Helper()
	_, err := svc.TransitionRequest(reqID, recipientID, model.StatusAccepted)
	require.NoError(t, err)
	_, err = svc.TransitionRequest(reqID, recipientID, model.StatusCompleted)
	require.NoError(t, err)
}

func TestSubmitFeedbackUpdatesRating(t *testing.T) {
	userRepo, _, svc, alice, bob := newExchangeFixture(t)
	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)
	completeExchange(t, svc, req.ID, bob.ID)

	fb, err := svc.SubmitFeedback(req.ID, alice.ID, 4, "great teacher")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, fb.ToUserID)

	stored, err := userRepo.GetUserByID(bob.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.Rating, 0.001)
}

func TestSubmitFeedbackResubmissionOverwrites(t *testing.T) {
	userRepo, repo, svc, alice, bob := newExchangeFixture(t)
	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)
	completeExchange(t, svc, req.ID, bob.ID)

	_, err = svc.SubmitFeedback(req.ID, alice.ID, 2, "meh")
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(req.ID, alice.ID, 5, "changed my mind")
	require.NoError(t, err)

	rows, err := repo.GetFeedbackForUser(bob.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Stars)

	stored, err := userRepo.GetUserByID(bob.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, stored.Rating, 0.001)
}

func TestSubmitFeedbackAveragesAcrossExchanges(t *testing.T) {
	userRepo, _, svc, alice, bob := newExchangeFixture(t)

	first, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)
	completeExchange(t, svc, first.ID, bob.ID)

	second, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)
	completeExchange(t, svc, second.ID, bob.ID)

	_, err = svc.SubmitFeedback(first.ID, alice.ID, 5, "")
	require.NoError(t, err)
	_, err = svc.SubmitFeedback(second.ID, alice.ID, 2, "")
	require.NoError(t, err)

	stored, err := userRepo.GetUserByID(bob.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, stored.Rating, 0.001)
}

func TestSubmitFeedbackGuards(t *testing.T) {
	userRepo, _, svc, alice, bob := newExchangeFixture(t)
	carol := &model.User{Name: "Carol", Email: "carol@example.com", Rating: 5}
	require.NoError(t, userRepo.CreateUser(carol))

	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)

	// Not completed yet.
	_, err = svc.SubmitFeedback(req.ID, alice.ID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrRequestNotCompleted)

	completeExchange(t, svc, req.ID, bob.ID)

	_, err = svc.SubmitFeedback(req.ID, alice.ID, 0, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.SubmitFeedback(req.ID, alice.ID, 6, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Only participants may rate.
	_, err = svc.SubmitFeedback(req.ID, carol.ID, 4, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestFeedbackDirectionFollowsAuthor(t *testing.T) {
	userRepo, _, svc, alice, bob := newExchangeFixture(t)
	req, err := svc.CreateRequest(alice.ID, validInput(bob.ID))
	require.NoError(t, err)
	completeExchange(t, svc, req.ID, bob.ID)

	fromRecipient, err := svc.SubmitFeedback(req.ID, bob.ID, 3, "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, fromRecipient.ToUserID)

	stored, err := userRepo.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, stored.Rating, 0.001)
}
