// Package models - phiên nhận dạng giọng nói (in-memory, không lưu Mongo).
package models

// Trạng thái vòng đời của một phiên nhận dạng.
const (
	SessionStateListening = "listening"
	SessionStateStopped   = "stopped"
	SessionStateFailed    = "failed"
)

// SpeechSegment là một đoạn transcript gửi lên trong phiên.
// IsFinal=false là kết quả tạm, bị thay thế khi có segment tiếp theo.
type SpeechSegment struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
}

// SpeechSession giữ trạng thái một phiên nhận dạng đang mở.
// Transcript = các đoạn final đã chốt + đoạn interim mới nhất (nếu có).
type SpeechSession struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	State      string `json:"state"`
	Language   string `json:"language"`
	Transcript string `json:"transcript"`
	Error      string `json:"error,omitempty"`

	// Continuous=false: phiên tự đóng sau đoạn final đầu tiên.
	// InterimResults=false: đoạn tạm bị bỏ qua, chỉ nhận đoạn final.
	Continuous     bool `json:"continuous"`
	InterimResults bool `json:"interimResults"`

	StartedAt      int64 `json:"startedAt"`      // Unix ms
	LastActivityAt int64 `json:"lastActivityAt"` // Unix ms, dùng cho dọn session treo
}
