package forum

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

// Reputation deltas for the events that change it.
const (
	repAcceptedAnswer    = 15
	repQuestionUpvoted   = 10
	repQuestionDownvoted = -2
)

// Store is the persistence surface the service operates on. Both the
// postgres store and the in-memory store implement it.
type Store interface {
	domain.QuestionRepository
	domain.AnswerRepository
	domain.UserRepository
	domain.CommentRepository
	domain.VoteStore
}

// Notifier receives fan-out requests. Implementations decide suppression and
// retention; callers never learn whether a notification was persisted.
type Notifier interface {
	Notify(ctx context.Context, recipient, sender uuid.UUID, kind domain.NotificationKind, refs domain.NotificationRefs)
}

// Service implements the forum operations on top of a Store.
type Service struct {
	store     Store
	notifier  Notifier
	publisher domain.PushPublisher
	clock     clockwork.Clock
}

func NewService(store Store, notifier Notifier, publisher domain.PushPublisher, clock clockwork.Clock) *Service {
	return &Service{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		clock:     clock,
	}
}

// CreateQuestion persists a new question authored by the actor.
func (s *Service) CreateQuestion(ctx context.Context, actor domain.Identity, title, content string, tags []string) (*domain.Question, error) {
	if err := s.ensureActor(ctx, actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	q := &domain.Question{
		ID:        uuid.New(),
		Author:    actor.UserID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateQuestion(ctx, q); err != nil {
		return nil, apperrors.InternalError("failed to create question", err)
	}
	return q, nil
}

// GetQuestion loads a question together with its non-deleted answers.
func (s *Service) GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, []domain.Answer, error) {
	q, err := s.loadQuestion(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.store.ListAnswersByQuestion(ctx, q.ID)
	if err != nil {
		return nil, nil, apperrors.InternalError("failed to load answers", err)
	}
	return q, answers, nil
}

// PostAnswer persists a new answer to the given question. The owning
// question's answer count moves with it.
func (s *Service) PostAnswer(ctx context.Context, actor domain.Identity, questionID uuid.UUID, content string) (*domain.Answer, error) {
	q, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureActor(ctx, actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	a := &domain.Answer{
		ID:         uuid.New(),
		Author:     actor.UserID,
		QuestionID: q.ID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateAnswer(ctx, a); err != nil {
		return nil, apperrors.InternalError("failed to create answer", err)
	}

	s.publishQuestionEvent(ctx, q.ID, domain.QuestionEvent{
		Type:        "answer-created",
		QuestionID:  q.ID,
		AnswerID:    &a.ID,
		AnswerCount: q.AnswerCount + 1,
	})
	return a, nil
}

// DeleteAnswer soft-deletes an answer. Only the answer's author or a
// moderator may delete it.
func (s *Service) DeleteAnswer(ctx context.Context, actor domain.Identity, answerID uuid.UUID) error {
	a, err := s.loadAnswer(ctx, answerID)
	if err != nil {
		return err
	}
	if a.Author != actor.UserID && actor.Role != domain.RoleModerator && actor.Role != domain.RoleAdmin {
		return apperrors.ForbiddenError("only the answer author can delete this answer")
	}
	if err := s.store.SoftDeleteAnswer(ctx, a.ID, actor.UserID); err != nil {
		return apperrors.InternalError("failed to delete answer", err)
	}

	s.publishQuestionEvent(ctx, a.QuestionID, domain.QuestionEvent{
		Type:       "answer-deleted",
		QuestionID: a.QuestionID,
		AnswerID:   &a.ID,
	})
	return nil
}

// AcceptAnswer marks an answer as the accepted one for its question. Only
// the question author may accept; a previously accepted answer is unmarked
// in the same transition. The answer author gains reputation and is
// notified unless they accepted their own answer.
func (s *Service) AcceptAnswer(ctx context.Context, actor domain.Identity, questionID, answerID uuid.UUID) (*domain.Answer, error) {
	q, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	a, err := s.loadAnswer(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if a.QuestionID != q.ID {
		return nil, apperrors.ValidationError("answer does not belong to this question")
	}
	if q.Author != actor.UserID {
		return nil, apperrors.ForbiddenError("only the question author can accept an answer")
	}

	now := s.clock.Now()
	if err := s.store.AcceptAnswer(ctx, q.ID, a.ID, actor.UserID, now); err != nil {
		return nil, apperrors.InternalError("failed to accept answer", err)
	}
	if _, err := s.store.AdjustReputation(ctx, a.Author, repAcceptedAnswer); err != nil {
		return nil, apperrors.InternalError("failed to award reputation", err)
	}
	metrics.AnswersAcceptedTotal.Inc()
	metrics.ReputationAdjustmentsTotal.WithLabelValues("accept").Inc()

	s.notifier.Notify(ctx, a.Author, actor.UserID, domain.KindAccepted, domain.NotificationRefs{
		QuestionID: &q.ID,
		AnswerID:   &a.ID,
	})
	s.publishQuestionEvent(ctx, q.ID, domain.QuestionEvent{
		Type:       "answer-accepted",
		QuestionID: q.ID,
		AnswerID:   &a.ID,
	})

	accepted := *a
	accepted.IsAccepted = true
	accepted.AcceptedAt = &now
	acceptedBy := actor.UserID
	accepted.AcceptedBy = &acceptedBy
	return &accepted, nil
}

// PostComment persists a comment on a question or answer and notifies the
// parent's author.
func (s *Service) PostComment(ctx context.Context, actor domain.Identity, entity domain.EntityType, entityID uuid.UUID, content string) (*domain.Comment, error) {
	var recipient uuid.UUID
	refs := domain.NotificationRefs{}

	switch entity {
	case domain.EntityQuestion:
		q, err := s.loadQuestion(ctx, entityID)
		if err != nil {
			return nil, err
		}
		recipient = q.Author
		refs.QuestionID = &q.ID
	case domain.EntityAnswer:
		a, err := s.loadAnswer(ctx, entityID)
		if err != nil {
			return nil, err
		}
		recipient = a.Author
		questionID := a.QuestionID
		refs.QuestionID = &questionID
		refs.AnswerID = &a.ID
	default:
		return nil, apperrors.ValidationError("invalid entity type")
	}

	if err := s.ensureActor(ctx, actor); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:         uuid.New(),
		Author:     actor.UserID,
		EntityType: entity,
		EntityID:   entityID,
		Content:    content,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, apperrors.InternalError("failed to create comment", err)
	}

	refs.CommentID = &c.ID
	s.notifier.Notify(ctx, recipient, actor.UserID, domain.KindComment, refs)
	s.publishQuestionEvent(ctx, *refs.QuestionID, domain.QuestionEvent{
		Type:       "comment-created",
		QuestionID: *refs.QuestionID,
		AnswerID:   refs.AnswerID,
	})
	return c, nil
}

// GetUser loads a user's public profile.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperrors.NotFoundError("user not found")
		}
		return nil, apperrors.InternalError("failed to load user", err)
	}
	return u, nil
}

// --- Internal helpers ---

func (s *Service) ensureActor(ctx context.Context, actor domain.Identity) error {
	if _, err := s.store.EnsureUser(ctx, actor.UserID, actor.Username); err != nil {
		return apperrors.InternalError("failed to resolve user", err)
	}
	return nil
}

func (s *Service) loadQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, apperrors.NotFoundError("question not found")
		}
		return nil, apperrors.InternalError("failed to load question", err)
	}
	if q.IsDeleted {
		return nil, apperrors.NotFoundError("question not found")
	}
	return q, nil
}

func (s *Service) loadAnswer(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	a, err := s.store.GetAnswer(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAnswerNotFound) {
			return nil, apperrors.NotFoundError("answer not found")
		}
		return nil, apperrors.InternalError("failed to load answer", err)
	}
	if a.IsDeleted {
		return nil, apperrors.NotFoundError("answer not found")
	}
	return a, nil
}

func (s *Service) publishQuestionEvent(ctx context.Context, questionID uuid.UUID, event domain.QuestionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishQuestionEvent(ctx, questionID, event); err != nil {
		slog.Warn("Failed to publish question event",
			"question_id", questionID,
			"event_type", event.Type,
			"error", err,
		)
	}
}
