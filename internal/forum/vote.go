package forum

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/metrics"
)

// voteTarget is what the toggle pipeline needs from a votable entity.
type voteTarget struct {
	entity     domain.EntityType
	id         uuid.UUID
	questionID uuid.UUID
	author     uuid.UUID
}

// VoteQuestion toggles the actor's vote on a question. A repeated
// same-direction vote retracts; an opposite-direction vote switches.
func (s *Service) VoteQuestion(ctx context.Context, actor domain.Identity, questionID uuid.UUID, direction domain.VoteDirection) (domain.VoteResult, error) {
	q, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return domain.VoteResult{}, err
	}
	return s.applyVote(ctx, actor, voteTarget{
		entity:     domain.EntityQuestion,
		id:         q.ID,
		questionID: q.ID,
		author:     q.Author,
	}, direction)
}

// VoteAnswer toggles the actor's vote on an answer.
func (s *Service) VoteAnswer(ctx context.Context, actor domain.Identity, answerID uuid.UUID, direction domain.VoteDirection) (domain.VoteResult, error) {
	a, err := s.loadAnswer(ctx, answerID)
	if err != nil {
		return domain.VoteResult{}, err
	}
	return s.applyVote(ctx, actor, voteTarget{
		entity:     domain.EntityAnswer,
		id:         a.ID,
		questionID: a.QuestionID,
		author:     a.Author,
	}, direction)
}

// applyVote runs the toggle pipeline shared by both entity types: validate
// direction, toggle atomically, then fan out notification, reputation, and
// the room event. Fan-out never fails the vote itself.
func (s *Service) applyVote(ctx context.Context, actor domain.Identity, target voteTarget, direction domain.VoteDirection) (domain.VoteResult, error) {
	if direction != domain.VoteUp && direction != domain.VoteDown {
		return domain.VoteResult{}, apperrors.ValidationError("invalid vote direction")
	}
	if err := s.ensureActor(ctx, actor); err != nil {
		return domain.VoteResult{}, err
	}

	res, err := s.store.ToggleVote(ctx, target.entity, target.id, actor.UserID, direction)
	if err != nil {
		return domain.VoteResult{}, apperrors.InternalError("failed to apply vote", err)
	}
	metrics.VotesTotal.WithLabelValues(string(target.entity), string(direction), voteOutcome(res)).Inc()

	// Retractions are silent: no notification, no reputation change.
	if res.Applied {
		refs := domain.NotificationRefs{QuestionID: &target.questionID}
		if target.entity == domain.EntityAnswer {
			answerID := target.id
			refs.AnswerID = &answerID
		}
		s.notifier.Notify(ctx, target.author, actor.UserID, kindForDirection(direction), refs)

		if target.entity == domain.EntityQuestion {
			s.adjustReputation(ctx, target.author, questionVoteDelta(direction), "question_"+string(direction))
		}
	}

	event := domain.QuestionEvent{
		Type:       "vote",
		QuestionID: target.questionID,
		Score:      res.Score,
	}
	if target.entity == domain.EntityAnswer {
		answerID := target.id
		event.AnswerID = &answerID
	}
	s.publishQuestionEvent(ctx, target.questionID, event)

	return res, nil
}

// adjustReputation applies a best-effort reputation change. The triggering
// operation has already committed, so failures are logged, not surfaced.
func (s *Service) adjustReputation(ctx context.Context, userID uuid.UUID, delta int, event string) {
	if _, err := s.store.AdjustReputation(ctx, userID, delta); err != nil {
		slog.Error("Failed to adjust reputation",
			"user_id", userID,
			"delta", delta,
			"error", err,
		)
		return
	}
	metrics.ReputationAdjustmentsTotal.WithLabelValues(event).Inc()
}

func voteOutcome(res domain.VoteResult) string {
	switch {
	case !res.Applied:
		return "retracted"
	case res.Switched:
		return "switched"
	default:
		return "applied"
	}
}

func kindForDirection(direction domain.VoteDirection) domain.NotificationKind {
	if direction == domain.VoteUp {
		return domain.KindUpvote
	}
	return domain.KindDownvote
}

func questionVoteDelta(direction domain.VoteDirection) int {
	if direction == domain.VoteUp {
		return repQuestionUpvoted
	}
	return repQuestionDownvoted
}
