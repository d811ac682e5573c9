package request

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcinglab/sourcingbot/internal/domain"
)

type fakeStore struct {
	requests  map[int64]domain.Request
	createErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: make(map[int64]domain.Request)}
}

func (f *fakeStore) Exists(_ context.Context, userID int64) (bool, error) {
	_, ok := f.requests[userID]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, req domain.Request) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.requests[req.UserID]; ok {
		return domain.ErrAlreadyExists
	}
	f.requests[req.UserID] = req
	return nil
}

func (f *fakeStore) Get(_ context.Context, userID int64) (domain.Request, error) {
	req, ok := f.requests[userID]
	if !ok {
		return domain.Request{}, domain.ErrNotFound
	}
	return req, nil
}

func (f *fakeStore) Delete(_ context.Context, userID int64) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	_, ok := f.requests[userID]
	delete(f.requests, userID)
	return ok, nil
}

func (f *fakeStore) List(_ context.Context) ([]domain.Request, error) {
	out := make([]domain.Request, 0, len(f.requests))
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, nil
}

type fakeSink struct {
	calls []string
	err   error
}

func (f *fakeSink) Notify(_ context.Context, text string) error {
	f.calls = append(f.calls, text)
	return f.err
}

func TestCreateNotifiesAdmin(t *testing.T) {
	store := newFakeStore()
	sink := &fakeSink{}
	svc := New(store, sink)

	err := svc.Create(context.Background(), 42, "buyer", "need 500 phone cases", "@buyer")
	require.NoError(t, err)

	require.Len(t, sink.calls, 1)
	assert.Contains(t, sink.calls[0], "@buyer")
	assert.Contains(t, sink.calls[0], "need 500 phone cases")

	got, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "need 500 phone cases", got.Description)
}

func TestCreateDuplicateSkipsNotification(t *testing.T) {
	store := newFakeStore()
	sink := &fakeSink{}
	svc := New(store, sink)

	require.NoError(t, svc.Create(context.Background(), 42, "buyer", "first", "contact"))
	sink.calls = nil

	err := svc.Create(context.Background(), 42, "buyer", "second", "contact")
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Empty(t, sink.calls)

	got, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Description, "original request must survive a duplicate attempt")
}

func TestCreateSinkFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	sink := &fakeSink{err: errors.New("telegram down")}
	svc := New(store, sink)

	err := svc.Create(context.Background(), 42, "", "described well enough", "contact")
	require.NoError(t, err)

	exists, err := store.Exists(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, exists, "request must persist even when notification fails")
}

func TestCreateWithoutSink(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil)

	err := svc.Create(context.Background(), 7, "", "no sink wired yet", "contact")
	require.NoError(t, err)
}

func TestCreateStorageError(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection reset")
	sink := &fakeSink{}
	svc := New(store, sink)

	err := svc.Create(context.Background(), 42, "buyer", "desc", "contact")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Empty(t, sink.calls)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil)

	require.NoError(t, svc.Create(context.Background(), 42, "", "to be removed", "contact"))

	existed, err := svc.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestAdminNotificationFallsBackToID(t *testing.T) {
	text := adminNotificationText(99, "", "desc", "contact")
	assert.Contains(t, text, "`99`")
	assert.NotContains(t, text, "(@")
}
