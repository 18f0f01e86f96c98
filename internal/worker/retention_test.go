package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/clinicapp/clinic-backend/internal/domain/notification"
	"github.com/clinicapp/clinic-backend/internal/service"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	redisclient "github.com/clinicapp/clinic-backend/pkg/redis"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testMetrics = metrics.NewCollector("clinic_worker_test")

type memoryNotificationRepo struct {
	mu    sync.Mutex
	items []*notification.Notification

	deleteCalls chan time.Time
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{deleteCalls: make(chan time.Time, 16)}
}

func (r *memoryNotificationRepo) Append(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.items = append(r.items, n)
	return nil
}

func (r *memoryNotificationRepo) Page(context.Context, uuid.UUID, notification.PageRequest) (*notification.Page, error) {
	return &notification.Page{}, nil
}

func (r *memoryNotificationRepo) Unread(context.Context, uuid.UUID) ([]*notification.Notification, error) {
	return nil, nil
}

func (r *memoryNotificationRepo) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memoryNotificationRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (r *memoryNotificationRepo) MarkAllRead(context.Context, uuid.UUID) error { return nil }

func (r *memoryNotificationRepo) DeleteReadBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*notification.Notification
	var deleted int64
	for _, n := range r.items {
		if n.Read && n.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	r.deleteCalls <- before
	return deleted, nil
}

func (r *memoryNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type grantingLocker struct{}

func (grantingLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, string, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

func seedAged(repo *memoryNotificationRepo, age time.Duration, read bool) {
	n := &notification.Notification{
		RecipientID: uuid.New(),
		Type:        notification.TypeAppointmentModified,
		CreatedAt:   time.Now().Add(-age),
		Read:        read,
	}
	repo.items = append(repo.items, n)
}

func TestSweeperDeletesOldReadNotifications(t *testing.T) {
	repo := newMemoryNotificationRepo()
	seedAged(repo, 40*24*time.Hour, true)  // past retention, read
	seedAged(repo, 40*24*time.Hour, false) // past retention, unread
	seedAged(repo, time.Hour, true)        // recent, read

	svc := service.NewNotificationService(repo, testMetrics, zap.NewNop())
	w := NewRetentionSweeper(svc, grantingLocker{}, 30, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case before := <-repo.deleteCalls:
		horizon := time.Now().Add(-30 * 24 * time.Hour)
		if d := before.Sub(horizon); d < -time.Minute || d > time.Minute {
			t.Errorf("cutoff = %v, want ~%v", before, horizon)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no sweep before first tick")
	}

	cancel()
	<-done

	if got := repo.count(); got != 2 {
		t.Fatalf("remaining = %d, want 2 (unread and recent kept)", got)
	}
}

func TestSweeperSkipsWhenLockHeld(t *testing.T) {
	repo := newMemoryNotificationRepo()
	seedAged(repo, 40*24*time.Hour, true)

	svc := service.NewNotificationService(repo, testMetrics, zap.NewNop())
	w := NewRetentionSweeper(svc, busyLocker{}, 30, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Give the immediate pass a moment; the busy lock must keep the repo
	// untouched.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	select {
	case <-repo.deleteCalls:
		t.Fatal("sweep ran despite held lock")
	default:
	}
	if got := repo.count(); got != 1 {
		t.Fatalf("remaining = %d, want 1", got)
	}
}
