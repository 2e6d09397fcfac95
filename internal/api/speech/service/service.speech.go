// Package service - quản lý phiên nhận dạng giọng nói.
//
// Session sống trong bộ nhớ process: transcript build từ các segment client
// đẩy lên (continuous, có kết quả interim). Môi trường tắt speech thì mọi
// thao tác trả về ErrSpeechUnsupported để client hiện thông báo tương ứng.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	notedto "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/dto"
	notesvc "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/service"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/models"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/registry"

	"github.com/google/uuid"
)

const defaultLanguage = "en-US"

// SessionOptions cấu hình một phiên nhận dạng mới.
type SessionOptions struct {
	Language       string
	Continuous     bool
	InterimResults bool
}

// DefaultSessionOptions là cấu hình phiên mặc định: nghe liên tục,
// nhận cả kết quả tạm, ngôn ngữ en-US.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Language:       defaultLanguage,
		Continuous:     true,
		InterimResults: true,
	}
}

// sessionEntry gói session cùng phần transcript đang build.
type sessionEntry struct {
	mu      sync.Mutex
	session models.SpeechSession

	finalParts []string // các đoạn đã chốt
	interim    string   // đoạn tạm mới nhất, bị thay khi có segment mới
}

// composeTranscript ghép transcript hiện tại. Caller phải giữ mu.
func (e *sessionEntry) composeTranscript() string {
	parts := e.finalParts
	if e.interim != "" {
		parts = append(append([]string{}, e.finalParts...), e.interim)
	}
	return strings.Join(parts, " ")
}

// SpeechService là cấu trúc chứa các phương thức quản lý phiên nhận dạng
type SpeechService struct {
	enabled    bool
	maxIdle    time.Duration
	sessions   *registry.Registry[*sessionEntry]
	noteSvc    *notesvc.NoteService // nil nếu không bật lưu voice note
	cleanupMu  sync.Mutex
	cleanupOn  bool
	cleanupEnd chan struct{}
}

// NewSpeechService tạo mới SpeechService.
// noteService truyền nil nếu không cần lưu transcript thành note.
func NewSpeechService(enabled bool, maxIdleSec int, noteService *notesvc.NoteService) *SpeechService {
	return &SpeechService{
		enabled:    enabled,
		maxIdle:    time.Duration(maxIdleSec) * time.Second,
		sessions:   registry.NewRegistry[*sessionEntry](),
		noteSvc:    noteService,
		cleanupEnd: make(chan struct{}),
	}
}

// Supported cho biết môi trường hiện tại có hỗ trợ nhận dạng giọng nói không.
func (s *SpeechService) Supported() bool {
	return s.enabled
}

// StartSession mở phiên nhận dạng mới cho user.
// Môi trường không hỗ trợ: trả về ErrSpeechUnsupported, không tạo gì cả.
func (s *SpeechService) StartSession(userID string, opts SessionOptions) (*models.SpeechSession, error) {
	if !s.enabled {
		return nil, common.ErrSpeechUnsupported
	}
	if userID == "" {
		return nil, common.ErrInvalidInput
	}
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}

	now := time.Now().UnixMilli()
	entry := &sessionEntry{
		session: models.SpeechSession{
			ID:             uuid.NewString(),
			UserID:         userID,
			State:          models.SessionStateListening,
			Language:       opts.Language,
			Continuous:     opts.Continuous,
			InterimResults: opts.InterimResults,
			StartedAt:      now,
			LastActivityAt: now,
		},
	}
	s.sessions.Register(entry.session.ID, entry)

	snapshot := entry.session
	return &snapshot, nil
}

// AppendSegment đẩy một đoạn transcript vào phiên đang mở.
// Segment interim thay thế segment interim trước đó; segment final được
// chốt vào transcript và xóa interim.
func (s *SpeechService) AppendSegment(sessionID string, segment models.SpeechSegment) (*models.SpeechSession, error) {
	if !s.enabled {
		return nil, common.ErrSpeechUnsupported
	}
	entry, exist := s.sessions.Get(sessionID)
	if !exist {
		return nil, common.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.State != models.SessionStateListening {
		return nil, common.ErrSpeechSessionEnded
	}

	text := strings.TrimSpace(segment.Text)
	if segment.IsFinal {
		if text != "" {
			entry.finalParts = append(entry.finalParts, text)
		}
		entry.interim = ""
		// Phiên không liên tục tự đóng sau đoạn final đầu tiên,
		// giống SpeechRecognition với continuous=false.
		if !entry.session.Continuous {
			entry.session.State = models.SessionStateStopped
		}
	} else if entry.session.InterimResults {
		entry.interim = text
	}
	entry.session.Transcript = entry.composeTranscript()
	entry.session.LastActivityAt = time.Now().UnixMilli()

	snapshot := entry.session
	return &snapshot, nil
}

// StopSession đóng phiên và trả về trạng thái cuối cùng.
// errMsg khác rỗng: phiên kết thúc ở trạng thái failed nhưng transcript đã
// thu được vẫn giữ nguyên. saveAsNote: transcript khác rỗng được lưu thành
// voice note của user (lỗi lưu note trả về cho caller).
func (s *SpeechService) StopSession(ctx context.Context, sessionID string, errMsg string, saveAsNote bool) (*models.SpeechSession, error) {
	if !s.enabled {
		return nil, common.ErrSpeechUnsupported
	}
	entry, exist := s.sessions.Get(sessionID)
	if !exist {
		return nil, common.ErrNotFound
	}

	entry.mu.Lock()
	// Phiên non-continuous có thể đã tự đóng sau đoạn final đầu tiên;
	// stop lúc đó vẫn hợp lệ và chỉ còn việc chốt kết quả + dọn registry.
	alreadyStopped := entry.session.State == models.SessionStateStopped
	if !alreadyStopped && entry.session.State != models.SessionStateListening {
		snapshot := entry.session
		entry.mu.Unlock()
		return &snapshot, common.ErrSpeechSessionEnded
	}

	if !alreadyStopped {
		// Đoạn interim cuối cùng được chốt luôn khi dừng.
		if entry.interim != "" {
			entry.finalParts = append(entry.finalParts, entry.interim)
			entry.interim = ""
		}
		entry.session.Transcript = entry.composeTranscript()
		entry.session.LastActivityAt = time.Now().UnixMilli()
	}
	if errMsg != "" {
		entry.session.State = models.SessionStateFailed
		entry.session.Error = errMsg
	} else {
		entry.session.State = models.SessionStateStopped
	}
	snapshot := entry.session
	entry.mu.Unlock()

	s.sessions.Remove(sessionID)

	if saveAsNote && snapshot.Transcript != "" && s.noteSvc != nil {
		if _, err := s.noteSvc.CreateNote(ctx, snapshot.UserID, &notedto.NoteCreateInput{
			Title:       "Voice note " + time.UnixMilli(snapshot.StartedAt).Format("2006-01-02 15:04"),
			Content:     snapshot.Transcript,
			IsVoiceNote: true,
		}); err != nil {
			return &snapshot, err
		}
	}
	return &snapshot, nil
}

// GetSession trả về snapshot trạng thái hiện tại của phiên.
func (s *SpeechService) GetSession(sessionID string) (*models.SpeechSession, error) {
	if !s.enabled {
		return nil, common.ErrSpeechUnsupported
	}
	entry, exist := s.sessions.Get(sessionID)
	if !exist {
		return nil, common.ErrNotFound
	}
	entry.mu.Lock()
	snapshot := entry.session
	entry.mu.Unlock()
	return &snapshot, nil
}

// StartCleanup chạy goroutine dọn các phiên không hoạt động quá maxIdle.
// Gọi nhiều lần chỉ chạy một goroutine.
func (s *SpeechService) StartCleanup() {
	s.cleanupMu.Lock()
	defer s.cleanupMu.Unlock()
	if s.cleanupOn || s.maxIdle <= 0 {
		return
	}
	s.cleanupOn = true

	// Chốt channel tại thời điểm khởi chạy: StopCleanup sẽ gán lại
	// s.cleanupEnd nên goroutine không được đọc lại field đó.
	stop := s.cleanupEnd
	go func() {
		ticker := time.NewTicker(s.maxIdle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.sweepIdle()
			}
		}
	}()
}

// StopCleanup dừng goroutine dọn dẹp (dùng khi shutdown).
func (s *SpeechService) StopCleanup() {
	s.cleanupMu.Lock()
	defer s.cleanupMu.Unlock()
	if !s.cleanupOn {
		return
	}
	s.cleanupOn = false
	close(s.cleanupEnd)
	s.cleanupEnd = make(chan struct{})
}

func (s *SpeechService) sweepIdle() {
	cutoff := time.Now().Add(-s.maxIdle).UnixMilli()
	var stale []string
	s.sessions.ForEach(func(id string, entry *sessionEntry) {
		entry.mu.Lock()
		idle := entry.session.LastActivityAt < cutoff
		entry.mu.Unlock()
		if idle {
			stale = append(stale, id)
		}
	})
	for _, id := range stale {
		s.sessions.Remove(id)
		logger.GetAppLogger().WithField("session_id", id).Info("Dọn phiên nhận dạng không hoạt động")
	}
}
