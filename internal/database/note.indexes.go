// Package database - Index cho collection notes.
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"
)

// CreateNoteIndexes tạo các index cho collection notes.
// (userId, updatedAt desc) phục vụ getUserNotes và live query — thứ tự sort
// được lấy thẳng từ index, layer truy cập không re-sort phía client.
func CreateNoteIndexes(ctx context.Context, db *mongo.Database) error {
	notes := db.Collection(global.MongoDB_ColNames.Notes)

	if _, err := notes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "updatedAt", Value: -1},
		},
		Options: options.Index().SetName("note_user_updated"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// (userId, reminder.date) sparse — quét reminder đang active theo ngày
	if _, err := notes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "reminder.date", Value: 1},
		},
		Options: options.Index().SetName("note_user_reminder").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

// isIndexExistsError kiểm tra lỗi index đã tồn tại (varies theo server version)
func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "IndexOptionsConflict")
}
