package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Model types ---

// Role is the coarse permission level resolved by the identity layer.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Identity is the authenticated caller of an operation. Every core operation
// takes it explicitly; nothing reads identity from ambient state.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

type User struct {
	ID         uuid.UUID `db:"id"`
	Username   string    `db:"username"`
	Reputation int       `db:"reputation"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// EntityType distinguishes the two votable content types.
type EntityType string

const (
	EntityQuestion EntityType = "question"
	EntityAnswer   EntityType = "answer"
)

// VoteDirection is a vote cast by a user on an entity.
type VoteDirection string

const (
	VoteUp   VoteDirection = "upvote"
	VoteDown VoteDirection = "downvote"
)

// Opposite returns the other direction.
func (d VoteDirection) Opposite() VoteDirection {
	if d == VoteUp {
		return VoteDown
	}
	return VoteUp
}

// VoteRecord holds the upvoter and downvoter sets of one entity.
// A user appears in at most one of the two sets.
type VoteRecord struct {
	Upvoters   []uuid.UUID
	Downvoters []uuid.UUID
}

// Score is the derived vote count: |upvoters| - |downvoters|.
func (v VoteRecord) Score() int {
	return len(v.Upvoters) - len(v.Downvoters)
}

// TotalVotes is the participation count: |upvoters| + |downvoters|.
func (v VoteRecord) TotalVotes() int {
	return len(v.Upvoters) + len(v.Downvoters)
}

// HasUpvoted reports whether userID is in the upvoter set.
func (v VoteRecord) HasUpvoted(userID uuid.UUID) bool {
	return containsID(v.Upvoters, userID)
}

// HasDownvoted reports whether userID is in the downvoter set.
func (v VoteRecord) HasDownvoted(userID uuid.UUID) bool {
	return containsID(v.Downvoters, userID)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type Question struct {
	ID               uuid.UUID
	Author           uuid.UUID
	Title            string
	Content          string
	Tags             []string
	Votes            VoteRecord
	AnswerCount      int
	CommentCount     int
	ViewCount        int
	AcceptedAnswerID *uuid.UUID
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Answer struct {
	ID           uuid.UUID
	Author       uuid.UUID
	QuestionID   uuid.UUID
	Content      string
	Votes        VoteRecord
	IsAccepted   bool
	AcceptedAt   *time.Time
	AcceptedBy   *uuid.UUID
	CommentCount int
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Comment struct {
	ID         uuid.UUID
	Author     uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Content    string
	CreatedAt  time.Time
}

// NotificationKind enumerates the fan-out event types. The set is fixed;
// persisted rows never carry any other value.
type NotificationKind string

const (
	KindComment  NotificationKind = "comment"
	KindUpvote   NotificationKind = "upvote"
	KindDownvote NotificationKind = "downvote"
	KindAccepted NotificationKind = "accepted"
)

// Valid reports whether k is one of the fixed kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindComment, KindUpvote, KindDownvote, KindAccepted:
		return true
	}
	return false
}

// NotificationRefs are the weak references a notification carries to the
// content it describes. Deletion of the referent does not cascade here.
type NotificationRefs struct {
	QuestionID *uuid.UUID
	AnswerID   *uuid.UUID
	CommentID  *uuid.UUID
}

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Recipient uuid.UUID        `json:"recipient"`
	Sender    uuid.UUID        `json:"sender"`
	Kind      NotificationKind `json:"kind"`
	Refs      NotificationRefs `json:"-"`
	Read      bool             `json:"read"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// --- Shared value types ---

// VoteResult reports the outcome of one vote toggle.
type VoteResult struct {
	// Applied is true when the vote was added (or switched); false when the
	// call retracted an existing same-direction vote.
	Applied bool `json:"applied"`
	// Switched is true when a prior opposite-direction vote was cleared.
	Switched  bool `json:"switched"`
	Upvotes   int  `json:"upvotes"`
	Downvotes int  `json:"downvotes"`
	Score     int  `json:"score"`
}

// QuestionEvent is the payload broadcast to a question room. Best-effort,
// no delivery guarantees.
type QuestionEvent struct {
	Type        string     `json:"type"`
	QuestionID  uuid.UUID  `json:"questionId"`
	AnswerID    *uuid.UUID `json:"answerId,omitempty"`
	Score       int        `json:"score,omitempty"`
	AnswerCount int        `json:"answerCount,omitempty"`
}

// --- Interfaces ---

// VoteStore applies a single user's vote toggle atomically against one
// entity's vote sets. Concurrent toggles by different users on the same
// entity must both be reflected.
type VoteStore interface {
	ToggleVote(ctx context.Context, entity EntityType, entityID, userID uuid.UUID, direction VoteDirection) (VoteResult, error)
}

// QuestionRepository abstracts question persistence.
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q *Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error)
}

// AnswerRepository abstracts answer persistence. CreateAnswer and
// SoftDeleteAnswer keep the owning question's answerCount in step;
// AcceptAnswer performs the full acceptance transition (unmark previous,
// mark new, set the question's accepted answer) atomically.
type AnswerRepository interface {
	CreateAnswer(ctx context.Context, a *Answer) error
	GetAnswer(ctx context.Context, id uuid.UUID) (*Answer, error)
	ListAnswersByQuestion(ctx context.Context, questionID uuid.UUID) ([]Answer, error)
	SoftDeleteAnswer(ctx context.Context, id, deletedBy uuid.UUID) error
	AcceptAnswer(ctx context.Context, questionID, answerID, acceptedBy uuid.UUID, at time.Time) error
}

// UserRepository abstracts user persistence. AdjustReputation is an atomic
// increment clamped to the floor of 1; it must be safe under concurrent
// calls for the same user.
type UserRepository interface {
	EnsureUser(ctx context.Context, id uuid.UUID, username string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	AdjustReputation(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

// CommentRepository abstracts comment persistence. CreateComment increments
// the parent entity's comment count.
type CommentRepository interface {
	CreateComment(ctx context.Context, c *Comment) error
}

// NotificationRetentionLimit caps how many notifications are kept per
// recipient. Insert evicts oldest-first before exceeding it.
const NotificationRetentionLimit = 100

// NotificationStore owns notification rows. Insert enforces the
// per-recipient retention cap by evicting oldest-first.
type NotificationStore interface {
	Insert(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByRecipient(ctx context.Context, recipient uuid.UUID, limit, offset int) ([]Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, recipient uuid.UUID, at time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UnreadCount(ctx context.Context, recipient uuid.UUID) (int, error)
}

// PushPublisher delivers live payloads to the transport layer. Both methods
/// are fire-and-forget from the caller's perspective: errors are logged by
// the caller, never surfaced to the triggering request.
type PushPublisher interface {
	PublishNotification(ctx context.Context, n *Notification) error
	PublishQuestionEvent(ctx context.Context, questionID uuid.UUID, event QuestionEvent) error
}
