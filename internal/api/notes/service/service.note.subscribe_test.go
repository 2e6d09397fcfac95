package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNoteStore giả lập store: danh sách note đổi được giữa các lần fetch.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes map[string][]models.Note
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[string][]models.Note)}
}

func (f *fakeNoteStore) set(userID string, notes []models.Note) {
	f.mu.Lock()
	f.notes[userID] = notes
	f.mu.Unlock()
}

func (f *fakeNoteStore) fetch(ctx context.Context, userID string) ([]models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Note, len(f.notes[userID]))
	copy(out, f.notes[userID])
	return out, nil
}

// recorder gom các snapshot subscriber nhận được.
type recorder struct {
	mu        sync.Mutex
	snapshots [][]models.Note
}

func (r *recorder) onChange(notes []models.Note) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, notes)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recorder) last() []models.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	store := newFakeNoteStore()
	store.set("user-1", []models.Note{
		{Title: "Note B", UserID: "user-1", UpdatedAt: 2000},
		{Title: "Note A", UserID: "user-1", UpdatedAt: 1000},
	})
	hub := NewNoteSubscriptionHub("notes_test_initial", store.fetch)

	rec := &recorder{}
	sub := hub.Subscribe("user-1", rec.onChange)
	defer sub.Cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 },
		2*time.Second, 10*time.Millisecond, "phải nhận snapshot đầu tiên ngay sau khi đăng ký")

	last := rec.last()
	require.Len(t, last, 2)
	assert.Equal(t, "Note B", last[0].Title, "thứ tự từ fetcher phải được giữ nguyên")
}

func TestNotifyUserDeliversFreshList(t *testing.T) {
	store := newFakeNoteStore()
	store.set("user-1", []models.Note{{Title: "Cũ", UserID: "user-1", UpdatedAt: 1000}})
	hub := NewNoteSubscriptionHub("notes_test_fresh", store.fetch)

	rec := &recorder{}
	sub := hub.Subscribe("user-1", rec.onChange)
	defer sub.Cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	store.set("user-1", []models.Note{
		{Title: "Mới", UserID: "user-1", UpdatedAt: 2000},
		{Title: "Cũ", UserID: "user-1", UpdatedAt: 1000},
	})
	hub.NotifyUser("user-1")

	require.Eventually(t, func() bool {
		last := rec.last()
		return len(last) == 2 && last[0].Title == "Mới"
	}, 2*time.Second, 10*time.Millisecond, "sau thay đổi phải nhận TOÀN BỘ danh sách mới")
}

func TestNotifyUserIgnoresOtherUsers(t *testing.T) {
	store := newFakeNoteStore()
	store.set("user-1", []models.Note{{Title: "A", UserID: "user-1"}})
	hub := NewNoteSubscriptionHub("notes_test_isolation", store.fetch)

	rec := &recorder{}
	sub := hub.Subscribe("user-1", rec.onChange)
	defer sub.Cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	countAfterInitial := rec.count()

	hub.NotifyUser("user-2")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, countAfterInitial, rec.count(), "thay đổi của user khác không được đánh thức subscriber này")
}

func TestCancelStopsCallbacks(t *testing.T) {
	store := newFakeNoteStore()
	store.set("user-1", []models.Note{{Title: "A", UserID: "user-1"}})
	hub := NewNoteSubscriptionHub("notes_test_cancel", store.fetch)

	rec := &recorder{}
	sub := hub.Subscribe("user-1", rec.onChange)

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	sub.Cancel()
	countAtCancel := rec.count()

	// Cancel đồng bộ: mọi notify sau đó không được tạo thêm callback nào.
	hub.NotifyUser("user-1")
	hub.NotifyAll()
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, countAtCancel, rec.count(), "sau Cancel tuyệt đối không còn callback")
	assert.Equal(t, 0, hub.Count(), "subscription phải được gỡ khỏi hub")
}

func TestCancelIsIdempotent(t *testing.T) {
	store := newFakeNoteStore()
	hub := NewNoteSubscriptionHub("notes_test_idempotent", store.fetch)

	sub := hub.Subscribe("user-1", func([]models.Note) {})
	sub.Cancel()
	assert.NotPanics(t, func() { sub.Cancel() }, "Cancel lần hai phải vô hại")
}

func TestBurstNotifiesCoalesce(t *testing.T) {
	store := newFakeNoteStore()
	store.set("user-1", []models.Note{{Title: "A", UserID: "user-1"}})
	hub := NewNoteSubscriptionHub("notes_test_burst", store.fetch)

	rec := &recorder{}
	sub := hub.Subscribe("user-1", rec.onChange)
	defer sub.Cancel()

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	for i := 0; i < 50; i++ {
		hub.NotifyUser("user-1")
	}

	// Dồn dập 50 notify vẫn phải có ít nhất một refresh nữa; nhưng nhờ
	// coalescing thì không cần tới 50 lần.
	require.Eventually(t, func() bool { return rec.count() >= 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Less(t, rec.count(), 52, "trigger phải được gộp thay vì refresh từng notify")
}
