// Package router - đăng ký route cho domain speech.
package router

import (
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/middleware"
	notesvc "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/service"
	apirouter "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/router"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/handler"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/service"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"

	"github.com/gofiber/fiber/v3"
)

// RegisterSpeechRoutes đăng ký các route speech vào router cha (đã mang prefix /api/v1).
func RegisterSpeechRoutes(api fiber.Router) error {
	noteService, err := notesvc.NewNoteService()
	if err != nil {
		return err
	}

	cfg := global.ServerConfig
	speechService := service.NewSpeechService(cfg.Speech_Enabled, cfg.Speech_MaxIdleSec, noteService)
	speechService.StartCleanup()

	speechHandler := handler.NewSpeechHandler(speechService)

	auth := []fiber.Handler{middleware.AuthMiddleware()}

	apirouter.RegisterRouteWithMiddleware(api, "/speech", "GET", "/support", auth, speechHandler.HandleGetSupport)
	apirouter.RegisterRouteWithMiddleware(api, "/speech", "POST", "/sessions", auth, speechHandler.HandleStartSession)
	apirouter.RegisterRouteWithMiddleware(api, "/speech", "GET", "/sessions/:id", auth, speechHandler.HandleGetSession)
	apirouter.RegisterRouteWithMiddleware(api, "/speech", "POST", "/sessions/:id/segments", auth, speechHandler.HandleAppendSegment)
	apirouter.RegisterRouteWithMiddleware(api, "/speech", "POST", "/sessions/:id/stop", auth, speechHandler.HandleStopSession)

	return nil
}
