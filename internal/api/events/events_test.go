package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDoc struct {
	UserID string
	Title  string
	count  int
}

func TestGetStringField(t *testing.T) {
	doc := sampleDoc{UserID: "user-7", Title: "ghi chú"}

	assert.Equal(t, "user-7", GetStringField(doc, "UserID"))
	assert.Equal(t, "user-7", GetStringField(&doc, "UserID"), "pointer tới struct cũng phải đọc được")
	assert.Equal(t, "", GetStringField(doc, "NotThere"))
	assert.Equal(t, "", GetStringField(doc, "count"), "field unexported không đọc được")
	assert.Equal(t, "", GetStringField(nil, "UserID"))
	assert.Equal(t, "", GetStringField((*sampleDoc)(nil), "UserID"))
	assert.Equal(t, "", GetStringField("không phải struct", "UserID"))
}

func TestEmitReachesAllHandlers(t *testing.T) {
	var received atomic.Int64
	done := make(chan DataChangeEvent, 2)

	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		received.Add(1)
		done <- e
	})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		received.Add(1)
		done <- e
	})

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "notes",
		Operation:      OpInsert,
		Document:       sampleDoc{UserID: "user-1"},
	})

	for i := 0; i < 2; i++ {
		select {
		case e := <-done:
			assert.Equal(t, "notes", e.CollectionName)
			assert.Equal(t, OpInsert, e.Operation)
		case <-time.After(2 * time.Second):
			require.Fail(t, "handler không nhận được event")
		}
	}
	assert.Equal(t, int64(2), received.Load())
}

func TestHandlerPanicDoesNotAffectOthers(t *testing.T) {
	done := make(chan struct{}, 1)

	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "panic_test" {
			panic("handler hỏng")
		}
	})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "panic_test" {
			done <- struct{}{}
		}
	})

	EmitDataChanged(context.Background(), DataChangeEvent{CollectionName: "panic_test", Operation: OpDelete})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "panic của handler này không được chặn handler khác")
	}
}
