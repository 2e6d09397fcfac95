// Package models - Note thuộc domain notes (collection notes).
// Ghi chú của người dùng, mỗi note thuộc đúng một user.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultNoteTitle là placeholder khi người dùng tạo note không có tiêu đề.
const DefaultNoteTitle = "Untitled Note"

// NoteReminder là sub-record nhắc nhở gắn với note.
// Presence và IsActive cùng quyết định reminder có hiển thị không.
type NoteReminder struct {
	Date     int64  `json:"date" bson:"date"`         // Unix ms
	Message  string `json:"message" bson:"message"`   // Nội dung nhắc nhở
	IsActive bool   `json:"isActive" bson:"isActive"` // Bật/tắt
}

// Note lưu ghi chú của user (notes).
type Note struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Title       string        `json:"title" bson:"title"`
	Content     string        `json:"content" bson:"content"`
	Summary     string        `json:"summary,omitempty" bson:"summary,omitempty"`
	Tags        []string      `json:"tags" bson:"tags"`
	Category    string        `json:"category,omitempty" bson:"category,omitempty"`
	Reminder    *NoteReminder `json:"reminder,omitempty" bson:"reminder,omitempty"`
	IsVoiceNote bool          `json:"isVoiceNote" bson:"isVoiceNote"`
	UserID      string        `json:"userId" bson:"userId"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Normalize đảm bảo mọi note trả về caller có timestamps và các field optional
// đã resolve đầy đủ. Store chưa materialize timestamp (0) thì fallback về now.
// Cùng một routine áp dụng cho cả fetch một lần và mọi push từ live subscription.
func (n *Note) Normalize(now int64) {
	if n.CreatedAt == 0 {
		n.CreatedAt = now
	}
	if n.UpdatedAt == 0 {
		n.UpdatedAt = now
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Reminder != nil && n.Reminder.Date == 0 {
		n.Reminder.Date = now
	}
}
