package service

import (
	"context"
	"sort"
	"strings"

	"skillvouch-backend/internal/apperr"
	"skillvouch-backend/internal/model"
)

// In-memory fakes for the repository interfaces. Each copies records on the
// way in and out so tests cannot mutate stored state through aliases.

type fakeUserRepo struct {
	users  map[uint]model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]model.User), nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *fakeUserRepo) GetAllUsers() ([]model.User, error) {
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, r.users[id])
	}
	return users, nil
}

func (r *fakeUserRepo) SaveUser(user *model.User) error {
	r.users[user.ID] = *user
	return nil
}

type fakeQuizRepo struct {
	quizzes    map[uint]model.Quiz
	results    map[uint][]model.QuizResult
	tasks      []model.GenerationTask
	savedUsers []model.User
	nextID     uint
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{
		quizzes: make(map[uint]model.Quiz),
		results: make(map[uint][]model.QuizResult),
		nextID:  1,
	}
}

func (r *fakeQuizRepo) CreateQuiz(quiz *model.Quiz) error {
	quiz.ID = r.nextID
	r.nextID++
	r.quizzes[quiz.ID] = *quiz
	return nil
}

func (r *fakeQuizRepo) GetQuizByID(id uint) (*model.Quiz, error) {
	quiz, ok := r.quizzes[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := quiz
	return &copied, nil
}

func (r *fakeQuizRepo) SaveResultAndUser(result *model.QuizResult, user *model.User) error {
	// Mirrors the upsert on (user, skill): replace an existing row.
	rows := r.results[result.UserID]
	replaced := false
	for i, row := range rows {
		if strings.EqualFold(row.SkillName, result.SkillName) {
			rows[i] = *result
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, *result)
	}
	r.results[result.UserID] = rows
	r.savedUsers = append(r.savedUsers, *user)
	return nil
}

func (r *fakeQuizRepo) GetResultsByUser(userID uint) ([]model.QuizResult, error) {
	return r.results[userID], nil
}

func (r *fakeQuizRepo) CreateTask(task *model.GenerationTask) error {
	task.ID = uint(len(r.tasks) + 1)
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *fakeQuizRepo) SaveTask(task *model.GenerationTask) error {
	for i, t := range r.tasks {
		if t.ID == task.ID {
			r.tasks[i] = *task
			return nil
		}
	}
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *fakeQuizRepo) GetLatestTask(userID uint, skillName string) (*model.GenerationTask, error) {
	for i := len(r.tasks) - 1; i >= 0; i-- {
		t := r.tasks[i]
		if t.UserID == userID && strings.EqualFold(t.SkillName, skillName) {
			copied := t
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeExchangeRepo struct {
	requests map[uint]model.ExchangeRequest
	feedback []model.ExchangeFeedback
	nextID   uint
}

func newFakeExchangeRepo() *fakeExchangeRepo {
	return &fakeExchangeRepo{requests: make(map[uint]model.ExchangeRequest), nextID: 1}
}

func (r *fakeExchangeRepo) CreateRequest(req *model.ExchangeRequest) error {
	req.ID = r.nextID
	r.nextID++
	r.requests[req.ID] = *req
	return nil
}

func (r *fakeExchangeRepo) GetRequestByID(id uint) (*model.ExchangeRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperr.ErrRequestNotFound
	}
	copied := req
	return &copied, nil
}

func (r *fakeExchangeRepo) GetRequestsForUser(userID uint) ([]model.ExchangeRequest, error) {
	var requests []model.ExchangeRequest
	for _, req := range r.requests {
		if req.FromUserID == userID || req.ToUserID == userID {
			requests = append(requests, req)
		}
	}
	return requests, nil
}

func (r *fakeExchangeRepo) SaveRequest(req *model.ExchangeRequest) error {
	r.requests[req.ID] = *req
	return nil
}

func (r *fakeExchangeRepo) UpsertFeedback(fb *model.ExchangeFeedback) error {
	for i, existing := range r.feedback {
		if existing.RequestID == fb.RequestID && existing.FromUserID == fb.FromUserID {
			r.feedback[i] = *fb
			return nil
		}
	}
	r.feedback = append(r.feedback, *fb)
	return nil
}

func (r *fakeExchangeRepo) GetFeedbackForUser(toUserID uint) ([]model.ExchangeFeedback, error) {
	var rows []model.ExchangeFeedback
	for _, fb := range r.feedback {
		if fb.ToUserID == toUserID {
			rows = append(rows, fb)
		}
	}
	return rows, nil
}

func (r *fakeExchangeRepo) AverageStars(toUserID uint) (float64, int64, error) {
	var sum int
	var count int64
	for _, fb := range r.feedback {
		if fb.ToUserID == toUserID {
			sum += fb.Stars
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type fakeMessageRepo struct {
	messages []model.Message
	nextID   uint
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (r *fakeMessageRepo) CreateMessage(msg *model.Message) error {
	msg.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) GetConversation(userA, userB uint) ([]model.Message, error) {
	var rows []model.Message
	for _, msg := range r.messages {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			rows = append(rows, msg)
		}
	}
	return rows, nil
}

// GetMessagesForUser returns newest first, matching the real repository.
func (r *fakeMessageRepo) GetMessagesForUser(userID uint) ([]model.Message, error) {
	var rows []model.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		msg := r.messages[i]
		if msg.SenderID == userID || msg.ReceiverID == userID {
			rows = append(rows, msg)
		}
	}
	return rows, nil
}

func (r *fakeMessageRepo) CountUnread(receiverID uint) (int64, error) {
	var count int64
	for _, msg := range r.messages {
		if msg.ReceiverID == receiverID && !msg.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) MarkAsRead(senderID, receiverID uint) error {
	for i, msg := range r.messages {
		if msg.SenderID == senderID && msg.ReceiverID == receiverID && !msg.Read {
			r.messages[i].Read = true
		}
	}
	return nil
}

// fakeGenerator replays canned responses in order and repeats the last one
// once exhausted. A respond hook takes precedence when set.
type fakeGenerator struct {
	respond   func(prompt string) (string, error)
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	i := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)

	if g.respond != nil {
		return g.respond(prompt)
	}

	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if len(g.responses) == 0 {
		return "", context.Canceled
	}
	if i >= len(g.responses) {
		i = len(g.responses) - 1
	}
	return g.responses[i], nil
}
