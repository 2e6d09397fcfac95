package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoteNormalizeFillsMissingFields(t *testing.T) {
	now := time.Now().UnixMilli()
	note := Note{
		Title:    "Ghi chú test",
		Reminder: &NoteReminder{Message: "nhắc nhở"},
	}

	note.Normalize(now)

	assert.Equal(t, now, note.CreatedAt, "createdAt = 0 phải fallback về now")
	assert.Equal(t, now, note.UpdatedAt, "updatedAt = 0 phải fallback về now")
	assert.Equal(t, now, note.Reminder.Date, "reminder.date = 0 phải fallback về now")
	assert.NotNil(t, note.Tags, "tags nil phải thành mảng rỗng")
	assert.Empty(t, note.Tags)
}

func TestNoteNormalizeKeepsExistingValues(t *testing.T) {
	now := time.Now().UnixMilli()
	note := Note{
		Tags:      []string{"work"},
		CreatedAt: 1000,
		UpdatedAt: 2000,
		Reminder:  &NoteReminder{Date: 3000},
	}

	note.Normalize(now)

	assert.Equal(t, int64(1000), note.CreatedAt)
	assert.Equal(t, int64(2000), note.UpdatedAt)
	assert.Equal(t, int64(3000), note.Reminder.Date)
	assert.Equal(t, []string{"work"}, note.Tags)
}

func TestNoteNormalizeWithoutReminder(t *testing.T) {
	note := Note{}
	note.Normalize(time.Now().UnixMilli())
	assert.Nil(t, note.Reminder, "không được tự tạo reminder")
}
