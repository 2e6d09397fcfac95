// Package router - đăng ký route cho các endpoint AI.
package router

import (
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/ai/handler"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/middleware"
	apirouter "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// RegisterAIRoutes đăng ký các route AI vào router cha (đã mang prefix /api/v1).
func RegisterAIRoutes(api fiber.Router) error {
	aiHandler := handler.NewAIHandler()

	auth := []fiber.Handler{middleware.AuthMiddleware()}

	apirouter.RegisterRouteWithMiddleware(api, "/ai", "POST", "/summarize", auth, aiHandler.HandleSummarize)
	apirouter.RegisterRouteWithMiddleware(api, "/ai", "POST", "/tags", auth, aiHandler.HandleExtractTags)
	apirouter.RegisterRouteWithMiddleware(api, "/ai", "POST", "/reminder", auth, aiHandler.HandleSmartReminder)
	apirouter.RegisterRouteWithMiddleware(api, "/ai", "POST", "/enhance", auth, aiHandler.HandleEnhance)

	return nil
}
