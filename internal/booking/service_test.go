package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookable/service-booking-backend/internal/availability"
	"github.com/bookable/service-booking-backend/internal/catalog"
	"github.com/bookable/service-booking-backend/internal/notification"
)

// slotStore backs both the availability fake and the booking repository
// fake so that CreateReserving exercises the same reserve-inside-commit
// arbitration the pgx repository gets from its conditional UPDATE.
type slotStore struct {
	mu    sync.Mutex
	slots map[string]*availability.Slot
}

func newSlotStore() *slotStore {
	return &slotStore{slots: make(map[string]*availability.Slot)}
}

func (s *slotStore) add(serviceID, date string) *availability.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := time.Parse("2006-01-02", date)
	slot := &availability.Slot{
		ID:          uuid.NewString(),
		ServiceID:   serviceID,
		Date:        d,
		StartTime:   availability.DefaultStartTime,
		EndTime:     availability.DefaultEndTime,
		IsAvailable: true,
	}
	s.slots[slot.ID] = slot
	return slot
}

func (s *slotStore) reserve(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	if !slot.IsAvailable || slot.IsBooked {
		return ErrSlotUnavailable
	}
	slot.IsBooked = true
	return nil
}

func (s *slotStore) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.slots[id]; ok {
		slot.IsBooked = false
	}
}

func (s *slotStore) isBooked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id].IsBooked
}

type fakeSlots struct {
	store *slotStore
}

func (f *fakeSlots) PublishRange(context.Context, availability.PublishRequest) ([]*availability.Slot, error) {
	panic("not used")
}

func (f *fakeSlots) GetByID(_ context.Context, id string) (*availability.Slot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	slot, ok := f.store.slots[id]
	if !ok {
		return nil, availability.ErrNotFound
	}
	cp := *slot
	return &cp, nil
}

func (f *fakeSlots) ListByService(_ context.Context, serviceID string, _, _ *time.Time) ([]*availability.Slot, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []*availability.Slot
	for _, s := range f.store.slots {
		if s.ServiceID == serviceID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeRepository struct {
	mu       sync.Mutex
	store    *slotStore
	bookings map[string]*Booking
}

func newFakeRepository(store *slotStore) *fakeRepository {
	return &fakeRepository{store: store, bookings: make(map[string]*Booking)}
}

func (r *fakeRepository) CreateReserving(_ context.Context, b *Booking) error {
	if err := r.store.reserve(b.SlotID); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepository) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.ServiceID != "" && b.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepository) Update(_ context.Context, b *Booking, releaseSlot bool) error {
	r.mu.Lock()
	if _, ok := r.bookings[b.ID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	r.bookings[b.ID] = &cp
	r.mu.Unlock()

	if releaseSlot {
		r.store.release(b.SlotID)
	}
	return nil
}

type fakeCatalog struct {
	mu       sync.Mutex
	services map[string]*catalog.Service
}

func (f *fakeCatalog) Create(context.Context, catalog.CreateRequest) (*catalog.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*catalog.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	svc, ok := f.services[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (f *fakeCatalog) List(context.Context, catalog.Filter) ([]*catalog.Service, int, error) {
	panic("not used")
}

func (f *fakeCatalog) Update(context.Context, string, catalog.UpdateRequest, string) (*catalog.Service, error) {
	panic("not used")
}

func (f *fakeCatalog) Delete(context.Context, string, string) error {
	panic("not used")
}

func (f *fakeCatalog) setPrice(id string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.services[id].HourlyPrice = price
}

type sentNotification struct {
	UserID    string
	Type      notification.Type
	Message   string
	RelatedID string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (f *fakeNotifier) Notify(_ context.Context, userID string, typ notification.Type, _, message, relatedID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{UserID: userID, Type: typ, Message: message, RelatedID: relatedID})
}

func (f *fakeNotifier) last() sentNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type testEnv struct {
	svc       Service
	store     *slotStore
	catalog   *fakeCatalog
	notifier  *fakeNotifier
	serviceID string
	ownerID   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newSlotStore()
	serviceID := uuid.NewString()
	ownerID := uuid.NewString()
	cat := &fakeCatalog{services: map[string]*catalog.Service{
		serviceID: {ID: serviceID, OwnerID: ownerID, Name: "Garden care", HourlyPrice: 100},
	}}
	notifier := &fakeNotifier{}
	repo := newFakeRepository(store)

	return &testEnv{
		svc:       NewService(repo, &fakeSlots{store: store}, cat, notifier),
		store:     store,
		catalog:   cat,
		notifier:  notifier,
		serviceID: serviceID,
		ownerID:   ownerID,
	}
}

func (e *testEnv) createRequest(userID, slotID string, hours int) CreateRequest {
	return CreateRequest{
		ServiceID:     e.serviceID,
		SlotID:        slotID,
		UserID:        userID,
		DurationHours: hours,
		Contact:       Contact{Name: "Alice", Email: "alice@example.com", Phone: "555-0100"},
	}
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	userID := uuid.NewString()

	b, err := env.svc.Create(context.Background(), env.createRequest(userID, slot.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, 200.0, b.TotalPrice)
	assert.Equal(t, env.ownerID, b.OwnerID)
	assert.True(t, env.store.isBooked(slot.ID))

	sent := env.notifier.last()
	assert.Equal(t, env.ownerID, sent.UserID, "the provider is notified, not the requester")
	assert.Equal(t, notification.TypeBookingCreated, sent.Type)
	assert.Equal(t, b.ID, sent.RelatedID)
}

func TestCreateBookingValidation(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("zero duration", func(t *testing.T) {
		_, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 0))
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("unknown service", func(t *testing.T) {
		req := env.createRequest(userID, slot.ID, 1)
		req.ServiceID = uuid.NewString()
		_, err := env.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := env.svc.Create(ctx, env.createRequest(userID, uuid.NewString(), 1))
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("slot belongs to another service", func(t *testing.T) {
		other := env.store.add(uuid.NewString(), "2024-06-01")
		_, err := env.svc.Create(ctx, env.createRequest(userID, other.ID, 1))
		assert.ErrorIs(t, err, ErrSlotMismatch)
	})

	t.Run("owner books own service", func(t *testing.T) {
		_, err := env.svc.Create(ctx, env.createRequest(env.ownerID, slot.ID, 1))
		assert.ErrorIs(t, err, ErrSelfBooking)
	})
}

func TestCreateBookingSlotTaken(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.createRequest(uuid.NewString(), slot.ID, 1))
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.createRequest(uuid.NewString(), slot.ID, 1))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")

	const n = 32
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Create(context.Background(), env.createRequest(uuid.NewString(), slot.ID, 1))
		}(i)
	}
	wg.Wait()

	won, lost := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, ErrSlotUnavailable)
			lost++
		}
	}
	assert.Equal(t, 1, won, "exactly one caller wins the slot")
	assert.Equal(t, n-1, lost)
}

func TestPriceFrozenAtCreation(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	userID := uuid.NewString()

	b, err := env.svc.Create(context.Background(), env.createRequest(userID, slot.ID, 3))
	require.NoError(t, err)
	require.Equal(t, 300.0, b.TotalPrice)

	env.catalog.setPrice(env.serviceID, 999)

	got, err := env.svc.GetByID(context.Background(), b.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.TotalPrice, "later price changes never touch an existing booking")
}

func TestConfirmBooking(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	userID := uuid.NewString()

	b, err := env.svc.Create(context.Background(), env.createRequest(userID, slot.ID, 1))
	require.NoError(t, err)

	status := string(StatusConfirmed)
	got, err := env.svc.Update(context.Background(), b.ID, UpdateRequest{Status: &status}, env.ownerID)
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)

	sent := env.notifier.last()
	assert.Equal(t, userID, sent.UserID)
	assert.Equal(t, notification.TypeBookingConfirmed, sent.Type)
}

func TestCancelReleasesSlot(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	userID := uuid.NewString()
	ctx := context.Background()

	b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
	require.NoError(t, err)
	require.True(t, env.store.isBooked(slot.ID))

	got, err := env.svc.Cancel(ctx, b.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.False(t, env.store.isBooked(slot.ID), "cancellation frees the slot")

	// The freed slot is immediately bookable by someone else.
	other, err := env.svc.Create(ctx, env.createRequest(uuid.NewString(), slot.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, other.Status)
}

func TestCancelNotifiesCounterpart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("requester cancels, owner notified", func(t *testing.T) {
		slot := env.store.add(env.serviceID, "2024-06-01")
		userID := uuid.NewString()
		b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
		require.NoError(t, err)

		_, err = env.svc.Cancel(ctx, b.ID, userID)
		require.NoError(t, err)

		sent := env.notifier.last()
		assert.Equal(t, env.ownerID, sent.UserID)
		assert.Equal(t, notification.TypeBookingCancelled, sent.Type)
	})

	t.Run("owner cancels, requester notified", func(t *testing.T) {
		slot := env.store.add(env.serviceID, "2024-06-02")
		userID := uuid.NewString()
		b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
		require.NoError(t, err)

		_, err = env.svc.Cancel(ctx, b.ID, env.ownerID)
		require.NoError(t, err)

		sent := env.notifier.last()
		assert.Equal(t, userID, sent.UserID)
		assert.Equal(t, notification.TypeBookingCancelled, sent.Type)
	})
}

func TestTerminalStatesAreFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.NewString()

	confirm := string(StatusConfirmed)
	complete := string(StatusCompleted)
	cancel := string(StatusCancelled)

	t.Run("cancelled booking", func(t *testing.T) {
		slot := env.store.add(env.serviceID, "2024-06-01")
		b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
		require.NoError(t, err)
		_, err = env.svc.Cancel(ctx, b.ID, userID)
		require.NoError(t, err)

		_, err = env.svc.Update(ctx, b.ID, UpdateRequest{Status: &confirm}, env.ownerID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = env.svc.Cancel(ctx, b.ID, userID)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("completed booking", func(t *testing.T) {
		slot := env.store.add(env.serviceID, "2024-06-02")
		b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
		require.NoError(t, err)

		_, err = env.svc.Update(ctx, b.ID, UpdateRequest{Status: &confirm}, env.ownerID)
		require.NoError(t, err)
		_, err = env.svc.Update(ctx, b.ID, UpdateRequest{Status: &complete}, env.ownerID)
		require.NoError(t, err)

		_, err = env.svc.Update(ctx, b.ID, UpdateRequest{Status: &cancel}, env.ownerID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = env.svc.Cancel(ctx, b.ID, env.ownerID)
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
	})

	t.Run("pending cannot complete directly", func(t *testing.T) {
		slot := env.store.add(env.serviceID, "2024-06-03")
		b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
		require.NoError(t, err)

		_, err = env.svc.Update(ctx, b.ID, UpdateRequest{Status: &complete}, env.ownerID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestBookingAccessControl(t *testing.T) {
	env := newTestEnv(t)
	slot := env.store.add(env.serviceID, "2024-06-01")
	userID := uuid.NewString()
	stranger := uuid.NewString()
	ctx := context.Background()

	b, err := env.svc.Create(ctx, env.createRequest(userID, slot.ID, 1))
	require.NoError(t, err)

	_, err = env.svc.GetByID(ctx, b.ID, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	status := string(StatusConfirmed)
	_, err = env.svc.Update(ctx, b.ID, UpdateRequest{Status: &status}, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.svc.Cancel(ctx, b.ID, stranger)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, _, err = env.svc.ListByService(ctx, env.serviceID, stranger, 1, 10)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	list, total, err := env.svc.ListByService(ctx, env.serviceID, env.ownerID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

// Full booking lifecycle against a three-day schedule: user A books and
// holds a slot, user B loses the race, A's cancellation frees the slot,
// and B's retry succeeds at B's own duration and price.
func TestBookingLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	slots := []*availability.Slot{
		env.store.add(env.serviceID, "2024-06-01"),
		env.store.add(env.serviceID, "2024-06-02"),
		env.store.add(env.serviceID, "2024-06-03"),
	}
	target := slots[1]

	userA := uuid.NewString()
	userB := uuid.NewString()

	bookingA, err := env.svc.Create(ctx, env.createRequest(userA, target.ID, 2))
	require.NoError(t, err)
	assert.Equal(t, 200.0, bookingA.TotalPrice)

	_, err = env.svc.Create(ctx, env.createRequest(userB, target.ID, 1))
	require.ErrorIs(t, err, ErrSlotUnavailable)

	status := string(StatusConfirmed)
	_, err = env.svc.Update(ctx, bookingA.ID, UpdateRequest{Status: &status}, env.ownerID)
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, bookingA.ID, userA)
	require.NoError(t, err)

	bookingB, err := env.svc.Create(ctx, env.createRequest(userB, target.ID, 1))
	require.NoError(t, err)
	assert.Equal(t, 100.0, bookingB.TotalPrice)

	mine, total, err := env.svc.ListByUser(ctx, userB, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, bookingB.ID, mine[0].ID)
}
