// Package router - đăng ký route cho domain notes.
package router

import (
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/middleware"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/handler"
	apirouter "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// RegisterNoteRoutes đăng ký các route notes vào router cha (đã mang prefix /api/v1).
// Toàn bộ endpoint notes đều yêu cầu xác thực.
func RegisterNoteRoutes(api fiber.Router) error {
	noteHandler, err := handler.NewNoteHandler()
	if err != nil {
		return err
	}

	auth := []fiber.Handler{middleware.AuthMiddleware()}

	apirouter.RegisterRouteWithMiddleware(api, "/notes", "POST", "/", auth, noteHandler.HandleCreateNote)
	apirouter.RegisterRouteWithMiddleware(api, "/notes", "GET", "/", auth, noteHandler.HandleGetUserNotes)
	apirouter.RegisterRouteWithMiddleware(api, "/notes", "GET", "/subscribe", auth, noteHandler.HandleSubscribeNotes)
	apirouter.RegisterRouteWithMiddleware(api, "/notes", "GET", "/:id", auth, noteHandler.HandleGetNote)
	apirouter.RegisterRouteWithMiddleware(api, "/notes", "PATCH", "/:id", auth, noteHandler.HandleUpdateNote)
	apirouter.RegisterRouteWithMiddleware(api, "/notes", "DELETE", "/:id", auth, noteHandler.HandleDeleteNote)

	return nil
}
