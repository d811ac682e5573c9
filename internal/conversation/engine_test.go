package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcinglab/sourcingbot/internal/domain"
)

type fakeRequests struct {
	requests  map[int64]domain.Request
	createErr error
	existsErr error
	getErr    error
	deleteErr error
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{requests: make(map[int64]domain.Request)}
}

func (f *fakeRequests) Exists(_ context.Context, userID int64) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.requests[userID]
	return ok, nil
}

func (f *fakeRequests) Create(_ context.Context, userID int64, _, description, contact string) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.requests[userID]; ok {
		return domain.ErrAlreadyExists
	}
	f.requests[userID] = domain.Request{UserID: userID, Description: description, Contact: contact}
	return nil
}

func (f *fakeRequests) Get(_ context.Context, userID int64) (domain.Request, error) {
	if f.getErr != nil {
		return domain.Request{}, f.getErr
	}
	req, ok := f.requests[userID]
	if !ok {
		return domain.Request{}, domain.ErrNotFound
	}
	return req, nil
}

func (f *fakeRequests) Delete(_ context.Context, userID int64) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, ok := f.requests[userID]
	delete(f.requests, userID)
	return ok, nil
}

func newTestEngine(reqs Requests) *Engine {
	return NewEngine(NewSessionStore(), reqs)
}

func TestHappyPath(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	rep, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalWelcome, rep.Signal)
	assert.True(t, e.InProgress(1))

	rep, err = e.Handle(ctx, TextInput{UserID: 1, Username: "buyer", Text: "need 500 phone cases"})
	require.NoError(t, err)
	assert.Equal(t, SignalPromptContact, rep.Signal)

	rep, err = e.Handle(ctx, TextInput{UserID: 1, Username: "buyer", Text: "@buyer"})
	require.NoError(t, err)
	assert.Equal(t, SignalThanks, rep.Signal)
	assert.False(t, e.InProgress(1))

	stored := reqs.requests[1]
	assert.Equal(t, "need 500 phone cases", stored.Description)
	assert.Equal(t, "@buyer", stored.Contact)
}

func TestStartWithExistingRequest(t *testing.T) {
	reqs := newFakeRequests()
	reqs.requests[1] = domain.Request{UserID: 1}
	e := newTestEngine(reqs)

	rep, err := e.Handle(context.Background(), StartTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalAlreadyRequested, rep.Signal)
	assert.False(t, e.InProgress(1))
}

func TestStartDuringDialogueRepromptsCurrentStep(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	_, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)

	rep, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalPromptDescription, rep.Signal)

	_, err = e.Handle(ctx, TextInput{UserID: 1, Text: "a fine description"})
	require.NoError(t, err)

	rep, err = e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalPromptContact, rep.Signal, "restart must not discard the collected description")

	rep, err = e.Handle(ctx, TextInput{UserID: 1, Text: "abc"})
	require.NoError(t, err)
	assert.Equal(t, SignalThanks, rep.Signal)
	assert.Equal(t, "a fine description", reqs.requests[1].Description)
}

func TestShortDescriptionReprompts(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	_, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)

	rep, err := e.Handle(ctx, TextInput{UserID: 1, Text: "shrt"})
	require.NoError(t, err)
	assert.Equal(t, SignalDescriptionTooShort, rep.Signal)
	assert.True(t, e.InProgress(1))

	rep, err = e.Handle(ctx, TextInput{UserID: 1, Text: "   four    "})
	require.NoError(t, err)
	assert.Equal(t, SignalDescriptionTooShort, rep.Signal, "surrounding whitespace must not count")

	rep, err = e.Handle(ctx, TextInput{UserID: 1, Text: "пять"})
	require.NoError(t, err)
	assert.Equal(t, SignalDescriptionTooShort, rep.Signal, "length is measured in runes, not bytes")
}

func TestShortContactReprompts(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	_, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	_, err = e.Handle(ctx, TextInput{UserID: 1, Text: "a fine description"})
	require.NoError(t, err)

	rep, err := e.Handle(ctx, TextInput{UserID: 1, Text: "ab"})
	require.NoError(t, err)
	assert.Equal(t, SignalContactTooShort, rep.Signal)
	assert.True(t, e.InProgress(1))
	assert.Empty(t, reqs.requests)
}

func TestCancelFromAnyState(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	// Idle: harmless, still acknowledged.
	rep, err := e.Handle(ctx, CancelTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalCancelled, rep.Signal)

	_, err = e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	rep, err = e.Handle(ctx, CancelTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalCancelled, rep.Signal)
	assert.False(t, e.InProgress(1))

	_, err = e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	_, err = e.Handle(ctx, TextInput{UserID: 1, Text: "a fine description"})
	require.NoError(t, err)
	rep, err = e.Handle(ctx, CancelTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalCancelled, rep.Signal)
	assert.False(t, e.InProgress(1))
	assert.Empty(t, reqs.requests)
}

func TestStorageFailurePreservesState(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	_, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	_, err = e.Handle(ctx, TextInput{UserID: 1, Text: "a fine description"})
	require.NoError(t, err)

	reqs.createErr = errors.New("connection reset")
	rep, err := e.Handle(ctx, TextInput{UserID: 1, Text: "@buyer"})
	require.Error(t, err)
	assert.Equal(t, SignalFailure, rep.Signal)
	assert.True(t, e.InProgress(1), "failed save must leave the dialogue resumable")

	// Retry succeeds with the same pending description.
	reqs.createErr = nil
	rep, err = e.Handle(ctx, TextInput{UserID: 1, Text: "@buyer"})
	require.NoError(t, err)
	assert.Equal(t, SignalThanks, rep.Signal)
	assert.Equal(t, "a fine description", reqs.requests[1].Description)
}

func TestCreateRaceFinishesDialogue(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	_, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	_, err = e.Handle(ctx, TextInput{UserID: 1, Text: "a fine description"})
	require.NoError(t, err)

	reqs.createErr = domain.ErrAlreadyExists
	rep, err := e.Handle(ctx, TextInput{UserID: 1, Text: "@buyer"})
	require.NoError(t, err)
	assert.Equal(t, SignalAlreadyRequested, rep.Signal)
	assert.False(t, e.InProgress(1))
}

func TestExistsFailureDoesNotStartDialogue(t *testing.T) {
	reqs := newFakeRequests()
	reqs.existsErr = errors.New("connection reset")
	e := newTestEngine(reqs)

	rep, err := e.Handle(context.Background(), StartTrigger{UserID: 1})
	require.Error(t, err)
	assert.Equal(t, SignalFailure, rep.Signal)
	assert.False(t, e.InProgress(1))
}

func TestTextOutsideDialogueIsIgnored(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)

	rep, err := e.Handle(context.Background(), TextInput{UserID: 1, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, SignalNone, rep.Signal)
}

func TestViewRequest(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	rep, err := e.Handle(ctx, ViewRequestTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalNoActiveRequest, rep.Signal)

	reqs.requests[1] = domain.Request{UserID: 1, Description: "500 cases", Contact: "@b"}
	rep, err = e.Handle(ctx, ViewRequestTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalRequestView, rep.Signal)
	assert.Equal(t, "500 cases", rep.Description)
	assert.Equal(t, "@b", rep.Contact)
}

func TestDeleteRequest(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	reqs.requests[1] = domain.Request{UserID: 1}
	rep, err := e.Handle(ctx, DeleteRequestTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalDeleted, rep.Signal)

	// Second delete reports absence instead of failing.
	rep, err = e.Handle(ctx, DeleteRequestTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalNoActiveRequest, rep.Signal)

	// Post-delete view shows nothing on file.
	rep, err = e.Handle(ctx, ViewRequestTrigger{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, SignalNoActiveRequest, rep.Signal)
}

func TestViewStorageFailure(t *testing.T) {
	reqs := newFakeRequests()
	reqs.getErr = errors.New("connection reset")
	e := newTestEngine(reqs)

	rep, err := e.Handle(context.Background(), ViewRequestTrigger{UserID: 1})
	require.Error(t, err)
	assert.Equal(t, SignalFailure, rep.Signal)
}

func TestConcurrentDialoguesAreIsolated(t *testing.T) {
	reqs := newFakeRequests()
	e := newTestEngine(reqs)
	ctx := context.Background()

	_, err := e.Handle(ctx, StartTrigger{UserID: 1})
	require.NoError(t, err)
	_, err = e.Handle(ctx, StartTrigger{UserID: 2})
	require.NoError(t, err)

	_, err = e.Handle(ctx, TextInput{UserID: 1, Text: "user one goods"})
	require.NoError(t, err)

	// User 2 is still on the description step.
	rep, err := e.Handle(ctx, StartTrigger{UserID: 2})
	require.NoError(t, err)
	assert.Equal(t, SignalPromptDescription, rep.Signal)

	_, err = e.Handle(ctx, TextInput{UserID: 2, Text: "user two goods"})
	require.NoError(t, err)

	rep, err = e.Handle(ctx, TextInput{UserID: 1, Text: "@one"})
	require.NoError(t, err)
	assert.Equal(t, SignalThanks, rep.Signal)
	rep, err = e.Handle(ctx, TextInput{UserID: 2, Text: "@two"})
	require.NoError(t, err)
	assert.Equal(t, SignalThanks, rep.Signal)

	assert.Equal(t, "user one goods", reqs.requests[1].Description)
	assert.Equal(t, "user two goods", reqs.requests[2].Description)
}
