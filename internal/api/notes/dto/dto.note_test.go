package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasChangesEmptyInput(t *testing.T) {
	// Body PATCH rỗng: không có gì để cập nhật, handler phải chặn trước service.
	var input NoteUpdateInput
	assert.False(t, input.HasChanges())
}

func TestHasChangesDetectsEachField(t *testing.T) {
	title := "tiêu đề"
	content := ""
	summary := "tóm tắt"
	tags := []string{"work"}
	category := "cá nhân"
	isVoice := false

	cases := map[string]NoteUpdateInput{
		"title":       {Title: &title},
		"content":     {Content: &content},
		"summary":     {Summary: &summary},
		"tags":        {Tags: &tags},
		"category":    {Category: &category},
		"reminder":    {Reminder: &NoteReminderInput{Date: 1}},
		"isVoiceNote": {IsVoiceNote: &isVoice},
	}
	for name, input := range cases {
		assert.True(t, input.HasChanges(), "field %s được set thì phải tính là có thay đổi", name)
	}
}
