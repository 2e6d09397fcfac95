package service

import (
	"context"
	"testing"
	"time"

	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/models"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnabledService() *SpeechService {
	return NewSpeechService(true, 300, nil)
}

func TestStartSessionUnsupported(t *testing.T) {
	svc := NewSpeechService(false, 300, nil)

	session, err := svc.StartSession("user-1", DefaultSessionOptions())

	assert.Nil(t, session)
	assert.ErrorIs(t, err, common.ErrSpeechUnsupported, "môi trường tắt speech phải báo unsupported rõ ràng")
}

func TestStartSessionDefaults(t *testing.T) {
	svc := newEnabledService()

	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, models.SessionStateListening, session.State)
	assert.Equal(t, "en-US", session.Language, "language trống phải dùng mặc định")
	assert.True(t, session.Continuous)
	assert.True(t, session.InterimResults)
	assert.NotZero(t, session.StartedAt)
}

func TestNonContinuousSessionAutoStops(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", SessionOptions{Language: "en-US", Continuous: false, InterimResults: true})
	require.NoError(t, err)

	updated, err := svc.AppendSegment(session.ID, models.SpeechSegment{Text: "chỉ một câu.", IsFinal: true})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStateStopped, updated.State, "phiên non-continuous phải tự đóng sau final đầu tiên")

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "câu thừa", IsFinal: true})
	assert.ErrorIs(t, err, common.ErrSpeechSessionEnded)

	// Stop sau khi tự đóng vẫn hợp lệ, trả về kết quả cuối.
	stopped, err := svc.StopSession(context.Background(), session.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, "chỉ một câu.", stopped.Transcript)
}

func TestInterimResultsDisabledIgnoresInterim(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", SessionOptions{Language: "en-US", Continuous: true, InterimResults: false})
	require.NoError(t, err)

	updated, err := svc.AppendSegment(session.ID, models.SpeechSegment{Text: "đoạn tạm", IsFinal: false})
	require.NoError(t, err)
	assert.Empty(t, updated.Transcript, "phiên tắt interimResults phải bỏ qua đoạn tạm")

	updated, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "đoạn chốt.", IsFinal: true})
	require.NoError(t, err)
	assert.Equal(t, "đoạn chốt.", updated.Transcript)
}

func TestInterimSegmentIsReplaced(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", SessionOptions{Language: "vi-VN", Continuous: true, InterimResults: true})
	require.NoError(t, err)

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "xin", IsFinal: false})
	require.NoError(t, err)
	updated, err := svc.AppendSegment(session.ID, models.SpeechSegment{Text: "xin chào", IsFinal: false})
	require.NoError(t, err)

	assert.Equal(t, "xin chào", updated.Transcript, "segment interim mới phải thay thế interim cũ")
}

func TestFinalSegmentsAccumulate(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "câu thứ nhất.", IsFinal: true})
	require.NoError(t, err)
	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "câu đang nói", IsFinal: false})
	require.NoError(t, err)
	updated, err := svc.AppendSegment(session.ID, models.SpeechSegment{Text: "câu thứ hai.", IsFinal: true})
	require.NoError(t, err)

	assert.Equal(t, "câu thứ nhất. câu thứ hai.", updated.Transcript,
		"segment final phải được chốt và xóa interim đang treo")
}

func TestStopSessionPromotesInterim(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "đã chốt.", IsFinal: true})
	require.NoError(t, err)
	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "chưa chốt", IsFinal: false})
	require.NoError(t, err)

	stopped, err := svc.StopSession(context.Background(), session.ID, "", false)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStateStopped, stopped.State)
	assert.Equal(t, "đã chốt. chưa chốt", stopped.Transcript, "interim cuối cùng phải được chốt khi dừng")
}

func TestStopSessionWithErrorKeepsTranscript(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "thu được trước khi lỗi.", IsFinal: true})
	require.NoError(t, err)

	stopped, err := svc.StopSession(context.Background(), session.ID, "microphone bị ngắt", false)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStateFailed, stopped.State)
	assert.Equal(t, "microphone bị ngắt", stopped.Error)
	assert.Equal(t, "thu được trước khi lỗi.", stopped.Transcript, "lỗi engine không được xóa transcript đã thu")
}

func TestAppendAfterStopFails(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	_, err = svc.StopSession(context.Background(), session.ID, "", false)
	require.NoError(t, err)

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "muộn rồi", IsFinal: true})
	assert.ErrorIs(t, err, common.ErrNotFound, "session đã đóng bị gỡ khỏi registry")
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	svc := newEnabledService()

	_, err := svc.AppendSegment("không-tồn-tại", models.SpeechSegment{Text: "x", IsFinal: true})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.GetSession("không-tồn-tại")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetSessionSnapshot(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	_, err = svc.AppendSegment(session.ID, models.SpeechSegment{Text: "một đoạn.", IsFinal: true})
	require.NoError(t, err)

	snapshot, err := svc.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "một đoạn.", snapshot.Transcript)
	assert.Equal(t, models.SessionStateListening, snapshot.State)
}

func TestCleanupRestartCycle(t *testing.T) {
	// Mỗi goroutine dọn dẹp giữ channel của riêng nó: dừng rồi khởi động lại
	// nhiều lần không được panic hay làm goroutine cũ chạy tiếp.
	svc := newEnabledService()

	assert.NotPanics(t, func() {
		svc.StartCleanup()
		svc.StartCleanup() // gọi lặp không tạo goroutine thứ hai
		svc.StopCleanup()
		svc.StopCleanup() // dừng khi đã dừng là no-op
		svc.StartCleanup()
		svc.StopCleanup()
	})
}

func TestSweepIdleRemovesStaleSessions(t *testing.T) {
	svc := newEnabledService()
	session, err := svc.StartSession("user-1", DefaultSessionOptions())
	require.NoError(t, err)

	entry, ok := svc.sessions.Get(session.ID)
	require.True(t, ok)
	entry.mu.Lock()
	entry.session.LastActivityAt = time.Now().Add(-2 * svc.maxIdle).UnixMilli()
	entry.mu.Unlock()

	svc.sweepIdle()

	_, err = svc.GetSession(session.ID)
	assert.ErrorIs(t, err, common.ErrNotFound, "phiên quá hạn idle phải bị dọn")
}
