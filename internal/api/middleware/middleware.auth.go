// Package middleware - Xác thực request bằng Firebase ID token.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/utility"
)

// AuthMiddleware xác thực Firebase ID token từ header Authorization.
// UID của user được lưu vào Locals("user_id") — owner principal được truyền
// tường minh vào mọi lời gọi Note Access Layer, không đọc từ global state.
//
// Khi AUTH_DISABLED=true (chỉ dev/test), user lấy từ header X-User-ID.
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Chế độ dev/test: bỏ qua Firebase, lấy user từ header
		if global.ServerConfig != nil && global.ServerConfig.AuthDisabled {
			userID := c.Get("X-User-ID")
			if userID == "" {
				return unauthorized(c, common.ErrTokenMissing)
			}
			c.Locals("user_id", userID)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, common.ErrTokenMissing)
		}

		idToken := strings.TrimPrefix(authHeader, "Bearer ")
		if idToken == authHeader || idToken == "" {
			return unauthorized(c, common.ErrTokenMissing)
		}

		uid, err := utility.VerifyIDToken(c.Context(), idToken)
		if err != nil {
			logger.WithRequest(c).WithError(err).Warn("Xác thực Firebase ID token thất bại")
			return unauthorized(c, common.ErrTokenInvalid)
		}

		c.Locals("user_id", uid)
		return c.Next()
	}
}

// GetUserID lấy user ID đã xác thực từ fiber context.
// Trả về chuỗi rỗng nếu request chưa qua AuthMiddleware.
func GetUserID(c fiber.Ctx) string {
	if uid, ok := c.Locals("user_id").(string); ok {
		return uid
	}
	return ""
}

func unauthorized(c fiber.Ctx, err error) error {
	customErr, ok := err.(*common.Error)
	if !ok {
		customErr = &common.Error{
			Code:       common.ErrCodeAuthToken,
			Message:    common.MsgUnauthorized,
			StatusCode: common.StatusUnauthorized,
		}
	}
	return c.Status(customErr.StatusCode).JSON(fiber.Map{
		"code":    customErr.Code.Code,
		"message": customErr.Message,
		"status":  "error",
	})
}
