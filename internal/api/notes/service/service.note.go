// Package service - nghiệp vụ cho domain notes.
// NoteService bọc BaseServiceMongoImpl và bổ sung các rule riêng của notes:
// default title/tags khi tạo, update từng phần, delete idempotent,
// và danh sách luôn được sort updatedAt giảm dần + normalize trước khi trả về.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/base/service"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/dto"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/models"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NoteService là cấu trúc chứa các phương thức liên quan đến note
type NoteService struct {
	*basesvc.BaseServiceMongoImpl[models.Note]
}

// NewNoteService tạo mới NoteService
func NewNoteService() (*NoteService, error) {
	noteCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Notes)
	if !exist {
		return nil, fmt.Errorf("failed to get note collection: %s", global.MongoDB_ColNames.Notes)
	}
	return &NoteService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Note](noteCollection),
	}, nil
}

// CreateNote tạo note mới cho user.
// Title rỗng được thay bằng placeholder, Tags nil thành mảng rỗng.
// Timestamps do tầng base gán (server-assigned), không nhận từ client.
func (s *NoteService) CreateNote(ctx context.Context, userID string, input *dto.NoteCreateInput) (*models.Note, error) {
	if userID == "" {
		return nil, common.ErrInvalidInput
	}

	title := input.Title
	if title == "" {
		title = models.DefaultNoteTitle
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	note := models.Note{
		Title:       title,
		Content:     input.Content,
		Tags:        tags,
		Category:    input.Category,
		IsVoiceNote: input.IsVoiceNote,
		UserID:      userID,
	}
	if input.Reminder != nil {
		note.Reminder = &models.NoteReminder{
			Date:     input.Reminder.Date,
			Message:  input.Reminder.Message,
			IsActive: input.Reminder.IsActive,
		}
	}

	created, err := s.InsertOne(ctx, note)
	if err != nil {
		return nil, err
	}
	created.Normalize(time.Now().UnixMilli())
	return &created, nil
}

// UpdateNote cập nhật từng phần một note theo id.
// Chỉ các field xuất hiện trong input được ghi đè; updatedAt luôn được làm mới.
// Reminder = nil trong input nghĩa là không đụng tới reminder hiện có.
func (s *NoteService) UpdateNote(ctx context.Context, noteID string, input *dto.NoteUpdateInput) (*models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}

	set := map[string]interface{}{}
	if input.Title != nil {
		title := *input.Title
		if title == "" {
			title = models.DefaultNoteTitle
		}
		set["title"] = title
	}
	if input.Content != nil {
		set["content"] = *input.Content
	}
	if input.Summary != nil {
		set["summary"] = *input.Summary
	}
	if input.Tags != nil {
		tags := *input.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.IsVoiceNote != nil {
		set["isVoiceNote"] = *input.IsVoiceNote
	}
	if input.Reminder != nil {
		set["reminder"] = map[string]interface{}{
			"date":     input.Reminder.Date,
			"message":  input.Reminder.Message,
			"isActive": input.Reminder.IsActive,
		}
	}

	updated, err := s.UpdateById(ctx, oid, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	updated.Normalize(time.Now().UnixMilli())
	return &updated, nil
}

// DeleteNote xóa note theo id. Idempotent: note không tồn tại vẫn coi là thành công,
// các lỗi khác từ store vẫn được trả về nguyên vẹn.
func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	oid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return common.ErrInvalidFormat
	}
	if err := s.DeleteById(ctx, oid); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// GetNote lấy một note theo id, kèm normalize.
func (s *NoteService) GetNote(ctx context.Context, noteID string) (*models.Note, error) {
	oid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	note, err := s.FindOneById(ctx, oid)
	if err != nil {
		return nil, err
	}
	note.Normalize(time.Now().UnixMilli())
	return &note, nil
}

// GetUserNotes trả về toàn bộ note của user, sort updatedAt giảm dần.
// Mọi note đi qua Normalize trước khi ra khỏi tầng service.
func (s *NoteService) GetUserNotes(ctx context.Context, userID string) ([]models.Note, error) {
	if userID == "" {
		return nil, common.ErrInvalidInput
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	notes, err := s.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	NormalizeNotes(notes)
	return notes, nil
}

// NormalizeNotes áp dụng Normalize lên cả danh sách với cùng một mốc thời gian.
func NormalizeNotes(notes []models.Note) {
	now := time.Now().UnixMilli()
	for i := range notes {
		notes[i].Normalize(now)
	}
}
