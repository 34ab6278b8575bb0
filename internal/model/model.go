package model

import "time"

// Skill levels derived from quiz scores.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// Verification states of a known skill.
const (
	VerificationPending  = "Pending"
	VerificationVerified = "Verified"
	VerificationFailed   = "Failed"
)

// Exchange request statuses.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// KnownSkill is one entry in a user's verified-skill profile. SkillName is
// unique per user, case-insensitive.
type KnownSkill struct {
	SkillName          string     `json:"skill_name"`
	Level              string     `json:"level"`
	VerificationStatus string     `json:"verification_status"`
	Score              int        `json:"score"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
}

// LearningGoal is one entry in a user's skills-to-learn list.
type LearningGoal struct {
	SkillName string `json:"skill_name"`
	Priority  string `json:"priority"`
	RoadmapID uint   `json:"roadmap_id,omitempty"`
}

type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	Email         string         `json:"email" gorm:"not null;uniqueIndex"`
	Password      string         `json:"-"`
	Avatar        string         `json:"avatar"`
	Bio           string         `json:"bio"`
	KnownSkills   []KnownSkill   `json:"known_skills" gorm:"serializer:json"`
	SkillsToLearn []LearningGoal `json:"skills_to_learn" gorm:"serializer:json"`
	Rating        float64        `json:"rating" gorm:"default:5"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// QuizQuestion is a single multiple-choice question. CorrectAnswerIndex is
// zero-based and always points into Options, which holds exactly four entries.
type QuizQuestion struct {
	Question           string   `json:"question"`
	CodeSnippet        string   `json:"code_snippet,omitempty"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
}

// Quiz is immutable once generated; regeneration creates a new row.
type Quiz struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	SkillName  string         `json:"skill_name" gorm:"not null"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuizQuestion `json:"questions" gorm:"serializer:json"`
	CreatedAt  time.Time      `json:"created_at"`
}

// QuizResult keeps at most one graded attempt per (user, skill); retakes
// overwrite the previous row.
type QuizResult struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_result_user_skill"`
	QuizID      uint      `json:"quiz_id" gorm:"not null"`
	SkillName   string    `json:"skill_name" gorm:"not null;uniqueIndex:idx_result_user_skill"`
	Answers     []int     `json:"answers" gorm:"serializer:json"`
	Score       int       `json:"score" gorm:"not null"`
	Level       string    `json:"level" gorm:"not null"`
	CompletedAt time.Time `json:"completed_at"`
}

// Statuses for asynchronous quiz generation tasks.
const (
	TaskPending   = "pending"
	TaskSucceeded = "succeeded"
	TaskFailed    = "failed"
)

// GenerationTask records the outcome of a fire-and-forget quiz generation
// triggered by adding a known skill.
type GenerationTask struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	SkillName string    `json:"skill_name" gorm:"not null"`
	Status    string    `json:"status" gorm:"default:'pending'"`
	QuizID    *uint     `json:"quiz_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ExchangeRequest struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	FromUserID     uint       `json:"from_user_id" gorm:"not null;index"`
	ToUserID       uint       `json:"to_user_id" gorm:"not null;index"`
	OfferedSkill   string     `json:"offered_skill" gorm:"not null"`
	RequestedSkill string     `json:"requested_skill" gorm:"not null"`
	Message        string     `json:"message" gorm:"not null"`
	Status         string     `json:"status" gorm:"default:'pending'"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ExchangeFeedback is unique per (request, author); a resubmission overwrites
// the earlier record instead of duplicating it.
type ExchangeFeedback struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	RequestID  uint      `json:"request_id" gorm:"not null;uniqueIndex:idx_feedback_request_author"`
	FromUserID uint      `json:"from_user_id" gorm:"not null;uniqueIndex:idx_feedback_request_author"`
	ToUserID   uint      `json:"to_user_id" gorm:"not null;index"`
	Stars      int       `json:"stars" gorm:"not null"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message rows are append-only except for the read flag.
type Message struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SenderID   uint      `json:"sender_id" gorm:"not null;index"`
	ReceiverID uint      `json:"receiver_id" gorm:"not null;index"`
	Content    string    `json:"content" gorm:"not null"`
	Read       bool      `json:"read" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation summarizes a message thread with one counterpart.
type Conversation struct {
	OtherUserID uint    `json:"other_user_id"`
	LastMessage Message `json:"last_message"`
	UnreadCount int     `json:"unread_count"`
}

type RoadmapStep struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Resources   []string `json:"resources,omitempty"`
}

// Roadmap is unique per (user, skill); regeneration overwrites.
type Roadmap struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	UserID      uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_roadmap_user_skill"`
	SkillName   string        `json:"skill_name" gorm:"not null;uniqueIndex:idx_roadmap_user_skill"`
	Steps       []RoadmapStep `json:"steps" gorm:"serializer:json"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// MatchRecommendation is one ranked entry returned by the peer matcher.
type MatchRecommendation struct {
	User            User     `json:"user"`
	MatchScore      int      `json:"match_score"`
	Reasoning       string   `json:"reasoning"`
	CommonInterests []string `json:"common_interests"`
}
