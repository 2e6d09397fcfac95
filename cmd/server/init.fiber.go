package main

import (
	"errors"
	"strings"
	"time"

	airouter "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/ai/router"
	basehdl "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/base/handler"
	noterouter "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/router"
	speechrouter "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/router"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// InitFiberApp tạo Fiber app với middleware chung và đăng ký toàn bộ route.
func InitFiberApp() (*fiber.App, error) {
	cfg := global.ServerConfig

	app := fiber.New(fiber.Config{
		AppName:      "AI Notes",
		ErrorHandler: fiberErrorHandler,
	})

	app.Use(recoverer.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORS_Origins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		AllowCredentials: cfg.CORS_AllowCredentials,
	}))
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
		}))
	}

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	if err := noterouter.RegisterNoteRoutes(api); err != nil {
		return nil, err
	}
	if err := airouter.RegisterAIRoutes(api); err != nil {
		return nil, err
	}
	if err := speechrouter.RegisterSpeechRoutes(api); err != nil {
		return nil, err
	}

	return app, nil
}

// fiberErrorHandler chuẩn hóa lỗi lọt ra ngoài handler về envelope chung.
func fiberErrorHandler(c fiber.Ctx, err error) error {
	var appErr *common.Error
	if errors.As(err, &appErr) {
		return basehdl.JSONResponse(c, appErr.StatusCode, fiber.Map{
			"code":    appErr.Code.Code,
			"message": appErr.Message,
			"status":  "error",
		})
	}

	statusCode := common.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		statusCode = fiberErr.Code
	}
	logger.GetErrorLogger().WithFields(map[string]interface{}{
		"path":  c.Path(),
		"error": err.Error(),
	}).Error("Request lỗi không được handler xử lý")

	return basehdl.JSONResponse(c, statusCode, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"status":  "error",
	})
}
