package schedulerequest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookable/service-booking-backend/internal/catalog"
	"github.com/bookable/service-booking-backend/internal/notification"
)

type memRepository struct {
	mu       sync.Mutex
	requests map[string]*ScheduleRequest
}

func newMemRepository() *memRepository {
	return &memRepository{requests: make(map[string]*ScheduleRequest)}
}

func (m *memRepository) Create(_ context.Context, r *ScheduleRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*ScheduleRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepository) List(_ context.Context, filter Filter) ([]*ScheduleRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ScheduleRequest
	for _, r := range m.requests {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.ServiceID != "" && r.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *memRepository) UpdateStatus(_ context.Context, r *ScheduleRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[r.ID]
	if !ok {
		return ErrNotFound
	}
	// Same arbitration as the conditional UPDATE: only a pending row moves.
	if stored.Status != StatusPending {
		return ErrNotPending
	}
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *memRepository) HasAccepted(_ context.Context, serviceID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.ServiceID == serviceID && r.UserID == userID && r.Status == StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

type memCatalog struct {
	services map[string]*catalog.Service
}

func (m *memCatalog) Create(context.Context, catalog.CreateRequest) (*catalog.Service, error) {
	panic("not used")
}

func (m *memCatalog) GetByID(_ context.Context, id string) (*catalog.Service, error) {
	svc, ok := m.services[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (m *memCatalog) List(context.Context, catalog.Filter) ([]*catalog.Service, int, error) {
	panic("not used")
}

func (m *memCatalog) Update(context.Context, string, catalog.UpdateRequest, string) (*catalog.Service, error) {
	panic("not used")
}

func (m *memCatalog) Delete(context.Context, string, string) error {
	panic("not used")
}

type sentNotification struct {
	UserID    string
	Type      notification.Type
	Message   string
	RelatedID string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (r *recordingNotifier) Notify(_ context.Context, userID string, typ notification.Type, _, message, relatedID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotification{UserID: userID, Type: typ, Message: message, RelatedID: relatedID})
}

func (r *recordingNotifier) byType(typ notification.Type) []sentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentNotification
	for _, n := range r.sent {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	svc       Service
	notifier  *recordingNotifier
	serviceID string
	ownerID   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	serviceID := uuid.NewString()
	ownerID := uuid.NewString()
	cat := &memCatalog{services: map[string]*catalog.Service{
		serviceID: {ID: serviceID, OwnerID: ownerID, Name: "Garden care", HourlyPrice: 100},
	}}
	notifier := &recordingNotifier{}

	return &testEnv{
		svc:       NewService(newMemRepository(), cat, notifier),
		notifier:  notifier,
		serviceID: serviceID,
		ownerID:   ownerID,
	}
}

func (e *testEnv) create(t *testing.T, userID string) *ScheduleRequest {
	t.Helper()
	sr, err := e.svc.Create(context.Background(), CreateRequest{
		ServiceID: e.serviceID,
		UserID:    userID,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		Message:   "Weekly visits if possible",
	})
	require.NoError(t, err)
	return sr
}

func TestCreateScheduleRequest(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()

	sr := env.create(t, userID)

	assert.Equal(t, StatusPending, sr.Status)
	assert.Equal(t, env.ownerID, sr.OwnerID)
	assert.Equal(t, "Garden care", sr.ServiceName)

	received := env.notifier.byType(notification.TypeRequestReceived)
	require.Len(t, received, 1)
	assert.Equal(t, env.ownerID, received[0].UserID)
	assert.Equal(t, sr.ID, received[0].RelatedID)

	confirm := env.notifier.byType(notification.TypeRequestSent)
	require.Len(t, confirm, 1)
	assert.Equal(t, userID, confirm[0].UserID)
}

func TestCreateScheduleRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, CreateRequest{
		ServiceID: uuid.NewString(),
		UserID:    uuid.NewString(),
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = env.svc.Create(ctx, CreateRequest{
		ServiceID: env.serviceID,
		UserID:    uuid.NewString(),
		StartDate: time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestAcceptScheduleRequest(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	sr := env.create(t, userID)

	got, err := env.svc.Accept(context.Background(), sr.ID, env.ownerID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)
	require.NotNil(t, got.RespondedAt)

	accepted := env.notifier.byType(notification.TypeRequestAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, userID, accepted[0].UserID)

	ok, err := env.svc.HasAccepted(context.Background(), env.serviceID, userID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRejectScheduleRequestWithReason(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	sr := env.create(t, userID)

	got, err := env.svc.Reject(context.Background(), sr.ID, env.ownerID, "Fully booked this month")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Contains(t, got.Message, "Weekly visits if possible")
	assert.Contains(t, got.Message, "Rejection reason: Fully booked this month")

	rejected := env.notifier.byType(notification.TypeRequestRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, userID, rejected[0].UserID)
	assert.True(t, strings.HasSuffix(rejected[0].Message, ": Fully booked this month"))

	ok, err := env.svc.HasAccepted(context.Background(), env.serviceID, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRejectWithoutReason(t *testing.T) {
	env := newTestEnv(t)
	sr := env.create(t, uuid.NewString())

	got, err := env.svc.Reject(context.Background(), sr.ID, env.ownerID, "")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.NotContains(t, got.Message, "Rejection reason")
}

func TestRespondOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	sr := env.create(t, userID)
	ctx := context.Background()

	_, err := env.svc.Accept(ctx, sr.ID, userID)
	assert.ErrorIs(t, err, ErrPermissionDenied, "the requester cannot accept their own request")

	_, err = env.svc.Reject(ctx, sr.ID, uuid.NewString(), "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The permission check fires even after the request left pending, so a
	// stranger cannot distinguish responded requests from pending ones.
	_, err = env.svc.Accept(ctx, sr.ID, env.ownerID)
	require.NoError(t, err)
	_, err = env.svc.Accept(ctx, sr.ID, userID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestRespondOnlyOncePending(t *testing.T) {
	env := newTestEnv(t)
	sr := env.create(t, uuid.NewString())
	ctx := context.Background()

	_, err := env.svc.Accept(ctx, sr.ID, env.ownerID)
	require.NoError(t, err)

	_, err = env.svc.Accept(ctx, sr.ID, env.ownerID)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = env.svc.Reject(ctx, sr.ID, env.ownerID, "changed my mind")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestWithdrawScheduleRequest(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	sr := env.create(t, userID)
	ctx := context.Background()

	_, err := env.svc.Withdraw(ctx, sr.ID, env.ownerID)
	assert.ErrorIs(t, err, ErrPermissionDenied, "only the requester may withdraw")

	got, err := env.svc.Withdraw(ctx, sr.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	withdrawn := env.notifier.byType(notification.TypeRequestWithdrawn)
	require.Len(t, withdrawn, 1)
	assert.Equal(t, env.ownerID, withdrawn[0].UserID)

	_, err = env.svc.Withdraw(ctx, sr.ID, userID)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = env.svc.Accept(ctx, sr.ID, env.ownerID)
	assert.ErrorIs(t, err, ErrNotPending, "a withdrawn request can no longer be accepted")
}

func TestGetScheduleRequestAccess(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	sr := env.create(t, userID)
	ctx := context.Background()

	for _, caller := range []string{userID, env.ownerID} {
		got, err := env.svc.GetByID(ctx, sr.ID, caller)
		require.NoError(t, err)
		assert.Equal(t, sr.ID, got.ID)
	}

	_, err := env.svc.GetByID(ctx, sr.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.GetByID(ctx, uuid.NewString(), userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByServiceOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	env.create(t, userID)
	env.create(t, uuid.NewString())
	ctx := context.Background()

	_, _, err := env.svc.ListByService(ctx, env.serviceID, userID, 1, 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	list, total, err := env.svc.ListByService(ctx, env.serviceID, env.ownerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	mine, total, err := env.svc.ListByUser(ctx, userID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, mine, 1)
}

func TestHasAcceptedScopedToUserAndService(t *testing.T) {
	env := newTestEnv(t)
	userA := uuid.NewString()
	userB := uuid.NewString()
	ctx := context.Background()

	sr := env.create(t, userA)
	env.create(t, userB)

	_, err := env.svc.Accept(ctx, sr.ID, env.ownerID)
	require.NoError(t, err)

	ok, err := env.svc.HasAccepted(ctx, env.serviceID, userA)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.svc.HasAccepted(ctx, env.serviceID, userB)
	require.NoError(t, err)
	assert.False(t, ok, "another user's acceptance does not leak")

	ok, err = env.svc.HasAccepted(ctx, uuid.NewString(), userA)
	require.NoError(t, err)
	assert.False(t, ok)
}
