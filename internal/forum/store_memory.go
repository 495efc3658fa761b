package forum

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

// InMemoryStore keeps all forum state in process for single-instance mode.
// Unlike the postgres store it has no durability; a single mutex covers all
// maps because handlers call it concurrently.
type InMemoryStore struct {
	mu    sync.Mutex
	clock clockwork.Clock

	users     map[uuid.UUID]*domain.User
	questions map[uuid.UUID]*domain.Question
	answers   map[uuid.UUID]*domain.Answer
	comments  map[uuid.UUID]*domain.Comment

	// notifications are kept per recipient in insertion order, oldest first,
	// so the retention cap can evict from the front.
	notificationsByID map[uuid.UUID]*domain.Notification
	notifications     map[uuid.UUID][]*domain.Notification
}

func NewInMemoryStore(clock clockwork.Clock) *InMemoryStore {
	return &InMemoryStore{
		clock:             clock,
		users:             make(map[uuid.UUID]*domain.User),
		questions:         make(map[uuid.UUID]*domain.Question),
		answers:           make(map[uuid.UUID]*domain.Answer),
		comments:          make(map[uuid.UUID]*domain.Comment),
		notificationsByID: make(map[uuid.UUID]*domain.Notification),
		notifications:     make(map[uuid.UUID][]*domain.Notification),
	}
}

// --- Users ---

func (s *InMemoryStore) EnsureUser(_ context.Context, id uuid.UUID, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, exists := s.users[id]; exists {
		if username != "" && u.Username != username {
			u.Username = username
			u.UpdatedAt = s.clock.Now()
		}
		copied := *u
		return &copied, nil
	}

	now := s.clock.Now()
	u := &domain.User{
		ID:         id,
		Username:   username,
		Reputation: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.users[id] = u
	copied := *u
	return &copied, nil
}

func (s *InMemoryStore) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *InMemoryStore) AdjustReputation(_ context.Context, id uuid.UUID, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[id]
	if !exists {
		return 0, domain.ErrUserNotFound
	}
	u.Reputation += delta
	if u.Reputation < 1 {
		u.Reputation = 1
	}
	u.UpdatedAt = s.clock.Now()
	return u.Reputation, nil
}

// --- Questions ---

func (s *InMemoryStore) CreateQuestion(_ context.Context, q *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := copyQuestion(q)
	s.questions[q.ID] = &copied
	return nil
}

func (s *InMemoryStore) GetQuestion(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.questions[id]
	if !exists {
		return nil, domain.ErrQuestionNotFound
	}
	copied := copyQuestion(q)
	return &copied, nil
}

// --- Answers ---

func (s *InMemoryStore) CreateAnswer(_ context.Context, a *domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.questions[a.QuestionID]
	if !exists {
		return domain.ErrQuestionNotFound
	}
	copied := copyAnswer(a)
	s.answers[a.ID] = &copied
	q.AnswerCount++
	q.UpdatedAt = s.clock.Now()
	return nil
}

func (s *InMemoryStore) GetAnswer(_ context.Context, id uuid.UUID) (*domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.answers[id]
	if !exists {
		return nil, domain.ErrAnswerNotFound
	}
	copied := copyAnswer(a)
	return &copied, nil
}

func (s *InMemoryStore) ListAnswersByQuestion(_ context.Context, questionID uuid.UUID) ([]domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var answers []domain.Answer
	for _, a := range s.answers {
		if a.QuestionID == questionID && !a.IsDeleted {
			answers = append(answers, copyAnswer(a))
		}
	}
	// Accepted answer first, then newest first.
	sort.Slice(answers, func(i, j int) bool {
		if answers[i].IsAccepted != answers[j].IsAccepted {
			return answers[i].IsAccepted
		}
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
	return answers, nil
}

func (s *InMemoryStore) SoftDeleteAnswer(_ context.Context, id, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.answers[id]
	if !exists || a.IsDeleted {
		return domain.ErrAnswerNotFound
	}
	a.IsDeleted = true
	a.UpdatedAt = s.clock.Now()

	if q, exists := s.questions[a.QuestionID]; exists {
		if q.AnswerCount > 0 {
			q.AnswerCount--
		}
		if q.AcceptedAnswerID != nil && *q.AcceptedAnswerID == id {
			q.AcceptedAnswerID = nil
		}
		q.UpdatedAt = s.clock.Now()
	}
	return nil
}

func (s *InMemoryStore) AcceptAnswer(_ context.Context, questionID, answerID, acceptedBy uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.questions[questionID]
	if !exists {
		return domain.ErrQuestionNotFound
	}
	a, exists := s.answers[answerID]
	if !exists || a.IsDeleted {
		return domain.ErrAnswerNotFound
	}

	// Unmark the previously accepted answer in the same transition.
	if q.AcceptedAnswerID != nil && *q.AcceptedAnswerID != answerID {
		if prev, exists := s.answers[*q.AcceptedAnswerID]; exists {
			prev.IsAccepted = false
			prev.AcceptedAt = nil
			prev.AcceptedBy = nil
		}
	}

	a.IsAccepted = true
	a.AcceptedAt = &at
	a.AcceptedBy = &acceptedBy
	a.UpdatedAt = at
	q.AcceptedAnswerID = &a.ID
	q.UpdatedAt = at
	return nil
}

// --- Comments ---

func (s *InMemoryStore) CreateComment(_ context.Context, c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *c
	s.comments[c.ID] = &copied

	switch c.EntityType {
	case domain.EntityQuestion:
		if q, exists := s.questions[c.EntityID]; exists {
			q.CommentCount++
		}
	case domain.EntityAnswer:
		if a, exists := s.answers[c.EntityID]; exists {
			a.CommentCount++
		}
	}
	return nil
}

// --- Votes ---

func (s *InMemoryStore) ToggleVote(_ context.Context, entity domain.EntityType, entityID, userID uuid.UUID, direction domain.VoteDirection) (domain.VoteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var votes *domain.VoteRecord
	switch entity {
	case domain.EntityQuestion:
		q, exists := s.questions[entityID]
		if !exists {
			return domain.VoteResult{}, domain.ErrQuestionNotFound
		}
		votes = &q.Votes
	case domain.EntityAnswer:
		a, exists := s.answers[entityID]
		if !exists {
			return domain.VoteResult{}, domain.ErrAnswerNotFound
		}
		votes = &a.Votes
	default:
		return domain.VoteResult{}, domain.ErrQuestionNotFound
	}

	applied, switched := toggleRecord(votes, userID, direction)
	return domain.VoteResult{
		Applied:   applied,
		Switched:  switched,
		Upvotes:   len(votes.Upvoters),
		Downvotes: len(votes.Downvoters),
		Score:     votes.Score(),
	}, nil
}

// toggleRecord applies one toggle to a vote record: a same-direction vote
// retracts, an opposite-direction vote switches, otherwise the vote is added.
func toggleRecord(votes *domain.VoteRecord, userID uuid.UUID, direction domain.VoteDirection) (applied, switched bool) {
	same, opposite := &votes.Upvoters, &votes.Downvoters
	if direction == domain.VoteDown {
		same, opposite = opposite, same
	}

	if containsUser(*same, userID) {
		*same = removeUser(*same, userID)
		return false, false
	}
	if containsUser(*opposite, userID) {
		*opposite = removeUser(*opposite, userID)
		switched = true
	}
	*same = append(*same, userID)
	return true, switched
}

// --- Notifications ---

func (s *InMemoryStore) Insert(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Evict before insert so the recipient never exceeds the cap.
	queue := s.notifications[n.Recipient]
	for len(queue) >= domain.NotificationRetentionLimit {
		oldest := queue[0]
		queue = queue[1:]
		delete(s.notificationsByID, oldest.ID)
		metrics.NotificationsEvictedTotal.Inc()
	}

	copied := *n
	queue = append(queue, &copied)
	s.notifications[n.Recipient] = queue
	s.notificationsByID[n.ID] = &copied
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notificationsByID[id]
	if !exists {
		return nil, domain.ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (s *InMemoryStore) ListByRecipient(_ context.Context, recipient uuid.UUID, limit, offset int) ([]domain.Notification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.notifications[recipient]
	total := len(queue)

	// Newest first.
	var page []domain.Notification
	for i := total - 1 - offset; i >= 0 && len(page) < limit; i-- {
		page = append(page, *queue[i])
	}
	return page, total, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notificationsByID[id]
	if !exists {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	n.ReadAt = &at
	return nil
}

func (s *InMemoryStore) MarkAllRead(_ context.Context, recipient uuid.UUID, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for _, n := range s.notifications[recipient] {
		if !n.Read {
			n.Read = true
			n.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notificationsByID[id]
	if !exists {
		return domain.ErrNotificationNotFound
	}
	delete(s.notificationsByID, id)

	queue := s.notifications[n.Recipient]
	for i, candidate := range queue {
		if candidate.ID == id {
			s.notifications[n.Recipient] = append(queue[:i], queue[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) UnreadCount(_ context.Context, recipient uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications[recipient] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// --- Copy helpers ---

func copyQuestion(q *domain.Question) domain.Question {
	copied := *q
	copied.Tags = append([]string(nil), q.Tags...)
	copied.Votes = copyVotes(q.Votes)
	if q.AcceptedAnswerID != nil {
		id := *q.AcceptedAnswerID
		copied.AcceptedAnswerID = &id
	}
	return copied
}

func copyAnswer(a *domain.Answer) domain.Answer {
	copied := *a
	copied.Votes = copyVotes(a.Votes)
	if a.AcceptedAt != nil {
		at := *a.AcceptedAt
		copied.AcceptedAt = &at
	}
	if a.AcceptedBy != nil {
		by := *a.AcceptedBy
		copied.AcceptedBy = &by
	}
	return copied
}

func copyVotes(v domain.VoteRecord) domain.VoteRecord {
	return domain.VoteRecord{
		Upvoters:   append([]uuid.UUID(nil), v.Upvoters...),
		Downvoters: append([]uuid.UUID(nil), v.Downvoters...),
	}
}

func containsUser(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeUser(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

