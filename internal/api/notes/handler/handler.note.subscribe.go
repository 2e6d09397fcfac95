// SSE endpoint đẩy danh sách note của user xuống client theo thời gian thực.
package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	basehdl "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/base/handler"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/middleware"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/models"

	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"
)

const keepAliveInterval = 15 * time.Second

// HandleSubscribeNotes xử lý GET /notes/subscribe (Server-Sent Events).
// Mỗi event "notes" mang toàn bộ danh sách mới nhất của user.
// Client ngắt kết nối thì subscription được hủy ngay.
func (h *NoteHandler) HandleSubscribeNotes(c fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	// Fetch thử một lần trước khi mở stream: store đọc không được thì
	// trả lỗi JSON bình thường thay vì một stream chết.
	if _, err := h.NoteService.GetUserNotes(c.Context(), userID); err != nil {
		basehdl.HandleResponse(c, nil, err)
		return nil
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// Channel coalescing: chỉ giữ snapshot mới nhất, snapshot cũ chưa kịp
	// ghi xuống client thì bỏ luôn vì nó đã lỗi thời.
	updates := make(chan []models.Note, 1)
	sub := h.NoteService.SubscribeToUserNotes(userID, func(notes []models.Note) {
		for {
			select {
			case updates <- notes:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})

	c.RequestCtx().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Cancel()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case notes := <-updates:
				payload, err := json.Marshal(notes)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: notes\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// Client đã đóng kết nối
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, ": keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
