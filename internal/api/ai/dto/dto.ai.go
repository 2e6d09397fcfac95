// Package dto - input/output cho các endpoint AI.
package dto

// AITextInput là payload chung cho summarize/tags/enhance.
type AITextInput struct {
	Text string `json:"text" validate:"required"`
}

// AIReminderInput là payload sinh gợi ý nhắc nhở từ một note.
type AIReminderInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

// AISummaryResponse trả về bản tóm tắt.
type AISummaryResponse struct {
	Summary string `json:"summary"`
}

// AITagsResponse trả về danh sách tag gợi ý.
type AITagsResponse struct {
	Tags []string `json:"tags"`
}

// AIReminderResponse trả về thông điệp nhắc nhở gợi ý.
type AIReminderResponse struct {
	Message string `json:"message"`
}

// AIEnhanceResponse trả về văn bản đã chỉnh sửa.
type AIEnhanceResponse struct {
	Text string `json:"text"`
}
