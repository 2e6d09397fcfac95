// Package dto - các struct input/output cho domain notes.
package dto

// NoteReminderInput là payload reminder khi tạo hoặc cập nhật note.
type NoteReminderInput struct {
	Date     int64  `json:"date" validate:"required"`
	Message  string `json:"message" validate:"omitempty,no_xss"`
	IsActive bool   `json:"isActive"`
}

// NoteCreateInput là dữ liệu đầu vào khi tạo note mới.
// Title để trống sẽ được thay bằng placeholder, Tags nil sẽ thành mảng rỗng.
type NoteCreateInput struct {
	Title       string             `json:"title" validate:"omitempty,no_xss"`
	Content     string             `json:"content" validate:"required"`
	Tags        []string           `json:"tags" validate:"omitempty,dive,not_blank"`
	Category    string             `json:"category" validate:"omitempty,no_xss"`
	Reminder    *NoteReminderInput `json:"reminder" validate:"omitempty"`
	IsVoiceNote bool               `json:"isVoiceNote"`
}

// NoteUpdateInput là dữ liệu cập nhật từng phần của note.
// Dùng pointer để phân biệt field vắng mặt với field được set về giá trị rỗng.
type NoteUpdateInput struct {
	Title       *string            `json:"title" validate:"omitempty,no_xss"`
	Content     *string            `json:"content" validate:"omitempty"`
	Summary     *string            `json:"summary" validate:"omitempty"`
	Tags        *[]string          `json:"tags" validate:"omitempty,dive,not_blank"`
	Category    *string            `json:"category" validate:"omitempty,no_xss"`
	Reminder    *NoteReminderInput `json:"reminder" validate:"omitempty"`
	IsVoiceNote *bool              `json:"isVoiceNote" validate:"omitempty"`
}

// HasChanges trả về true nếu input có ít nhất một field cần cập nhật.
func (in *NoteUpdateInput) HasChanges() bool {
	return in.Title != nil || in.Content != nil || in.Summary != nil ||
		in.Tags != nil || in.Category != nil || in.Reminder != nil || in.IsVoiceNote != nil
}
