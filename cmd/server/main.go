// Server chính của AI Notes backend.
// Thứ tự khởi tạo: logger -> config -> validator -> MongoDB -> Firebase
// -> change stream -> Fiber app. Shutdown nhận SIGINT/SIGTERM và đóng
// lần lượt HTTP server rồi kết nối MongoDB.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	notesvc "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/service"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/database"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"
)

func main() {
	if err := logger.Init(logger.DefaultConfig()); err != nil {
		panic(err)
	}
	log := logger.GetAppLogger()

	InitConfig()
	global.InitValidator()
	InitCollectionNames()

	if err := InitMongoDB(); err != nil {
		log.WithField("error", err.Error()).Fatal("Kết nối MongoDB thất bại")
	}
	InitFirebase()

	// Change stream bắt thay đổi từ process khác ghi thẳng vào Mongo.
	// Mở thất bại (ví dụ standalone, không phải replica set) thì chỉ warning:
	// live subscription vẫn chạy bằng events in-process.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if global.ServerConfig.ChangeStream_Enabled {
		noteService, err := notesvc.NewNoteService()
		if err != nil {
			log.WithField("error", err.Error()).Fatal("Khởi tạo NoteService thất bại")
		}
		if err := noteService.WatchExternalChanges(watchCtx); err != nil {
			log.WithField("error", err.Error()).
				Warn("Không mở được change stream, subscription chỉ nhận thay đổi in-process")
		}
	}

	app, err := InitFiberApp()
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Khởi tạo Fiber app thất bại")
	}

	go func() {
		log.WithField("address", global.ServerConfig.Address).Info("Server đang khởi động")
		if err := app.Listen(global.ServerConfig.Address); err != nil {
			log.WithField("error", err.Error()).Fatal("Server dừng bất thường")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Nhận tín hiệu dừng, bắt đầu shutdown")

	stopWatch()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithField("error", err.Error()).Error("Shutdown HTTP server lỗi")
	}
	if err := database.CloseInstance(global.MongoDB_Session); err != nil {
		log.WithField("error", err.Error()).Error("Đóng kết nối MongoDB lỗi")
	}
	logger.Close()
	log.Info("Server đã dừng")
}
