package main

import (
	"context"
	"time"

	"github.com/ThisaruSanduthilina/AI-Notes-App/config"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/database"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/utility"
)

// InitConfig khởi tạo cấu hình server từ file env + biến môi trường.
func InitConfig() {
	global.ServerConfig = config.NewConfig()
}

// InitCollectionNames gán tên các collection dùng trong toàn hệ thống.
func InitCollectionNames() {
	global.MongoDB_ColNames.Notes = "notes"
}

// InitMongoDB kết nối MongoDB, đăng ký collection vào registry và tạo index.
func InitMongoDB() error {
	client, err := database.GetInstance(global.ServerConfig)
	if err != nil {
		return err
	}
	global.MongoDB_Session = client

	db := client.Database(global.ServerConfig.MongoDB_DBName)
	if _, err := global.RegistryCollections.Register(
		global.MongoDB_ColNames.Notes,
		db.Collection(global.MongoDB_ColNames.Notes),
	); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return database.CreateNoteIndexes(ctx, db)
}

// InitFirebase khởi tạo Firebase Admin SDK để verify ID token.
// Thiếu cấu hình không chặn server start: AUTH_DISABLED vẫn dùng được cho dev.
func InitFirebase() {
	cfg := global.ServerConfig
	if cfg.FirebaseProjectID == "" && cfg.FirebaseCredentialsPath == "" {
		logger.GetAppLogger().Warn("Chưa cấu hình Firebase, các endpoint yêu cầu token sẽ từ chối request")
		return
	}
	if err := utility.InitFirebase(cfg.FirebaseProjectID, cfg.FirebaseCredentialsPath); err != nil {
		logger.GetErrorLogger().WithField("error", err.Error()).Error("Khởi tạo Firebase thất bại")
	}
}
