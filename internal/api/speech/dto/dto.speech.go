// Package dto - input/output cho các endpoint speech.
package dto

// SpeechStartInput là payload mở phiên nhận dạng mới.
// Continuous/InterimResults dùng pointer để phân biệt vắng mặt (mặc định true)
// với tắt tường minh.
type SpeechStartInput struct {
	Language       string `json:"language" validate:"omitempty"` // Mặc định en-US
	Continuous     *bool  `json:"continuous"`
	InterimResults *bool  `json:"interimResults"`
}

// SpeechSegmentInput là payload đẩy một đoạn transcript vào phiên.
type SpeechSegmentInput struct {
	Text    string `json:"text" validate:"required"`
	IsFinal bool   `json:"isFinal"`
}

// SpeechStopInput là payload đóng phiên.
// Error khác rỗng nghĩa là engine phía client gặp sự cố giữa chừng.
type SpeechStopInput struct {
	Error      string `json:"error" validate:"omitempty"`
	SaveAsNote bool   `json:"saveAsNote"` // Lưu transcript thành voice note
}
