package forum

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	apperrors "github.com/Ashmita1206/Odoo-Hackathon-2025/internal/errors"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/notify"
)

// recordingNotifier captures fan-out calls for assertions.
type recordingNotifier struct {
	calls []notifyCall
}

type notifyCall struct {
	recipient uuid.UUID
	sender    uuid.UUID
	kind      domain.NotificationKind
	refs      domain.NotificationRefs
}

func (r *recordingNotifier) Notify(_ context.Context, recipient, sender uuid.UUID, kind domain.NotificationKind, refs domain.NotificationRefs) {
	r.calls = append(r.calls, notifyCall{recipient: recipient, sender: sender, kind: kind, refs: refs})
}

func newTestService(t *testing.T) (*Service, *InMemoryStore, *recordingNotifier) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := NewInMemoryStore(clock)
	notifier := &recordingNotifier{}
	return NewService(store, notifier, nil, clock), store, notifier
}

func identity(username string) domain.Identity {
	return domain.Identity{UserID: uuid.New(), Username: username, Role: domain.RoleUser}
}

func createQuestion(t *testing.T, svc *Service, author domain.Identity) *domain.Question {
	t.Helper()
	q, err := svc.CreateQuestion(context.Background(), author, "How do goroutines get scheduled?", "I would like to understand the runtime scheduler in detail.", []string{"go"})
	require.NoError(t, err)
	return q
}

func TestVoteQuestionTogglesAndRetracts(t *testing.T) {
	svc, _, _ := newTestService(t)
	author := identity("asker")
	voter := identity("voter")
	q := createQuestion(t, svc, author)

	res, err := svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.False(t, res.Switched)
	assert.Equal(t, 1, res.Score)

	// Same direction again retracts.
	res, err = svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.Upvotes)
}

func TestVoteQuestionSwitchMovesScoreByTwo(t *testing.T) {
	svc, _, _ := newTestService(t)
	author := identity("asker")
	voter := identity("voter")
	q := createQuestion(t, svc, author)

	res, err := svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteUp)
	require.NoError(t, err)
	require.Equal(t, 1, res.Score)

	res, err = svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteDown)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, res.Switched)
	assert.Equal(t, -1, res.Score)
	assert.Equal(t, 0, res.Upvotes)
	assert.Equal(t, 1, res.Downvotes)
}

func TestVoteNeverDoubleCountsOneUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	author := identity("asker")
	voter := identity("voter")
	q := createQuestion(t, svc, author)

	for _, direction := range []domain.VoteDirection{domain.VoteUp, domain.VoteDown, domain.VoteUp, domain.VoteDown} {
		res, err := svc.VoteQuestion(context.Background(), voter, q.ID, direction)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.Upvotes+res.Downvotes, 1)
	}
}

func TestVoteNotifiesQuestionAuthor(t *testing.T) {
	svc, _, notifier := newTestService(t)
	author := identity("asker")
	voter := identity("voter")
	q := createQuestion(t, svc, author)

	_, err := svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteDown)
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	assert.Equal(t, author.UserID, call.recipient)
	assert.Equal(t, voter.UserID, call.sender)
	assert.Equal(t, domain.KindDownvote, call.kind)
	require.NotNil(t, call.refs.QuestionID)
	assert.Equal(t, q.ID, *call.refs.QuestionID)
}

func TestVoteRetractionIsSilent(t *testing.T) {
	svc, _, notifier := newTestService(t)
	author := identity("asker")
	voter := identity("voter")
	q := createQuestion(t, svc, author)

	_, err := svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteUp)
	require.NoError(t, err)
	_, err = svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteUp)
	require.NoError(t, err)

	// Only the initial vote notified; the retraction did not.
	assert.Len(t, notifier.calls, 1)
}

func TestQuestionVoteAdjustsAuthorReputation(t *testing.T) {
	svc, _, _ := newTestService(t)
	author := identity("asker")
	voter := identity("voter")
	q := createQuestion(t, svc, author)

	_, err := svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteUp)
	require.NoError(t, err)

	u, err := svc.GetUser(context.Background(), author.UserID)
	require.NoError(t, err)
	assert.Equal(t, 11, u.Reputation)
}

func TestReputationNeverDropsBelowFloor(t *testing.T) {
	svc, _, _ := newTestService(t)
	author := identity("asker")
	q := createQuestion(t, svc, author)

	// Fresh author sits at the floor; a pile of downvotes keeps them there.
	for i := 0; i < 5; i++ {
		voter := identity("voter")
		_, err := svc.VoteQuestion(context.Background(), voter, q.ID, domain.VoteDown)
		require.NoError(t, err)
	}

	u, err := svc.GetUser(context.Background(), author.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Reputation)
}

func TestAnswerVoteDoesNotTouchReputation(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	voter := identity("voter")
	q := createQuestion(t, svc, asker)
	a, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)

	_, err = svc.VoteAnswer(context.Background(), voter, a.ID, domain.VoteUp)
	require.NoError(t, err)

	u, err := svc.GetUser(context.Background(), answerer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Reputation)
}

func TestVoteUnknownQuestionReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	voter := identity("voter")

	_, err := svc.VoteQuestion(context.Background(), voter, uuid.New(), domain.VoteUp)
	require.Error(t, err)
	structured := apperrors.AsStructuredError(err)
	assert.Equal(t, apperrors.TypeNotFound, structured.Type)
}

func TestAcceptAnswerFullFlow(t *testing.T) {
	svc, _, notifier := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	q := createQuestion(t, svc, asker)
	a, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)

	accepted, err := svc.AcceptAnswer(context.Background(), asker, q.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, accepted.IsAccepted)
	require.NotNil(t, accepted.AcceptedBy)
	assert.Equal(t, asker.UserID, *accepted.AcceptedBy)

	// Answer author gains the acceptance bonus.
	u, err := svc.GetUser(context.Background(), answerer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 16, u.Reputation)

	// Answer author is notified.
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, domain.KindAccepted, notifier.calls[0].kind)
	assert.Equal(t, answerer.UserID, notifier.calls[0].recipient)

	// Question now points at the accepted answer.
	loaded, _, err := svc.GetQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.AcceptedAnswerID)
	assert.Equal(t, a.ID, *loaded.AcceptedAnswerID)
}

func TestAcceptAnswerOnlyQuestionAuthor(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	stranger := identity("stranger")
	q := createQuestion(t, svc, asker)
	a, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)

	_, err = svc.AcceptAnswer(context.Background(), stranger, q.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeForbidden, apperrors.AsStructuredError(err).Type)
}

func TestAcceptAnswerRejectsForeignAnswer(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	q1 := createQuestion(t, svc, asker)
	q2 := createQuestion(t, svc, asker)
	a, err := svc.PostAnswer(context.Background(), answerer, q2.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)

	_, err = svc.AcceptAnswer(context.Background(), asker, q1.ID, a.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeValidation, apperrors.AsStructuredError(err).Type)
}

func TestReacceptUnmarksPreviousAnswer(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	q := createQuestion(t, svc, asker)
	first, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)
	second, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Pin goroutines with runtime.LockOSThread when needed.")
	require.NoError(t, err)

	_, err = svc.AcceptAnswer(context.Background(), asker, q.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.AcceptAnswer(context.Background(), asker, q.ID, second.ID)
	require.NoError(t, err)

	_, answers, err := svc.GetQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	for _, a := range answers {
		if a.ID == first.ID {
			assert.False(t, a.IsAccepted, "previous answer must be unmarked")
		}
		if a.ID == second.ID {
			assert.True(t, a.IsAccepted)
		}
	}
}

func TestDeleteAnswerOnlyAuthorOrModerator(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	stranger := identity("stranger")
	moderator := domain.Identity{UserID: uuid.New(), Username: "mod", Role: domain.RoleModerator}
	q := createQuestion(t, svc, asker)

	a, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)

	err = svc.DeleteAnswer(context.Background(), stranger, a.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeForbidden, apperrors.AsStructuredError(err).Type)

	require.NoError(t, svc.DeleteAnswer(context.Background(), moderator, a.ID))

	// Deleted answers vanish from reads and the answer count.
	loaded, answers, err := svc.GetQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)
	assert.Equal(t, 0, loaded.AnswerCount)
}

func TestPostAnswerIncrementsCount(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	q := createQuestion(t, svc, asker)

	_, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)

	loaded, answers, err := svc.GetQuestion(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.AnswerCount)
	assert.Len(t, answers, 1)
}

func TestPostCommentNotifiesParentAuthor(t *testing.T) {
	svc, _, notifier := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	commenter := identity("commenter")
	q := createQuestion(t, svc, asker)
	a, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)
	notifier.calls = nil

	comment, err := svc.PostComment(context.Background(), commenter, domain.EntityAnswer, a.ID, "Great explanation, thanks!")
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	call := notifier.calls[0]
	assert.Equal(t, answerer.UserID, call.recipient)
	assert.Equal(t, domain.KindComment, call.kind)
	require.NotNil(t, call.refs.AnswerID)
	assert.Equal(t, a.ID, *call.refs.AnswerID)
	require.NotNil(t, call.refs.CommentID)
	assert.Equal(t, comment.ID, *call.refs.CommentID)
}

func TestSelfVoteOnOwnAnswerIsSilent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewInMemoryStore(clock)
	dispatcher := notify.NewDispatcher(store, nil, clock)
	svc := NewService(store, dispatcher, nil, clock)
	author := identity("author")

	q := createQuestion(t, svc, author)
	a, err := svc.PostAnswer(context.Background(), author, q.ID, "Answering my own question for posterity.")
	require.NoError(t, err)

	res, err := svc.VoteAnswer(context.Background(), author, a.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)

	// Actor and recipient are the same identity; nothing lands in the inbox.
	unread, err := store.UnreadCount(context.Background(), author.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}

func TestVoteDeletedAnswerReturnsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	asker := identity("asker")
	answerer := identity("answerer")
	voter := identity("voter")
	q := createQuestion(t, svc, asker)
	a, err := svc.PostAnswer(context.Background(), answerer, q.ID, "Use the scheduler trace to watch goroutine states.")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAnswer(context.Background(), answerer, a.ID))

	_, err = svc.VoteAnswer(context.Background(), voter, a.ID, domain.VoteUp)
	require.Error(t, err)
	assert.Equal(t, apperrors.TypeNotFound, apperrors.AsStructuredError(err).Type)
}
