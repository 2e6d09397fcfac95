// Package handler - xử lý HTTP request cho phiên nhận dạng giọng nói.
package handler

import (
	basehdl "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/base/handler"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/middleware"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/dto"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/models"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/speech/service"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"

	"github.com/gofiber/fiber/v3"
)

// SpeechHandler là cấu trúc chứa các phương thức xử lý request cho speech
type SpeechHandler struct {
	SpeechService *service.SpeechService
}

// NewSpeechHandler tạo mới SpeechHandler
func NewSpeechHandler(speechService *service.SpeechService) *SpeechHandler {
	return &SpeechHandler{SpeechService: speechService}
}

// HandleStartSession xử lý POST /speech/sessions
func (h *SpeechHandler) HandleStartSession(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID := middleware.GetUserID(c)

		var input dto.SpeechStartInput
		if len(c.Body()) > 0 {
			if err := c.Bind().Body(&input); err != nil {
				basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
				return nil
			}
		}

		opts := service.DefaultSessionOptions()
		if input.Language != "" {
			opts.Language = input.Language
		}
		if input.Continuous != nil {
			opts.Continuous = *input.Continuous
		}
		if input.InterimResults != nil {
			opts.InterimResults = *input.InterimResults
		}

		session, err := h.SpeechService.StartSession(userID, opts)
		basehdl.HandleResponse(c, session, err)
		return nil
	})
}

// HandleAppendSegment xử lý POST /speech/sessions/:id/segments
func (h *SpeechHandler) HandleAppendSegment(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input dto.SpeechSegmentInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}

		session, err := h.SpeechService.AppendSegment(c.Params("id"), models.SpeechSegment{
			Text:    input.Text,
			IsFinal: input.IsFinal,
		})
		basehdl.HandleResponse(c, session, err)
		return nil
	})
}

// HandleStopSession xử lý POST /speech/sessions/:id/stop
func (h *SpeechHandler) HandleStopSession(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input dto.SpeechStopInput
		if len(c.Body()) > 0 {
			if err := c.Bind().Body(&input); err != nil {
				basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
				return nil
			}
		}

		session, err := h.SpeechService.StopSession(c.Context(), c.Params("id"), input.Error, input.SaveAsNote)
		basehdl.HandleResponse(c, session, err)
		return nil
	})
}

// HandleGetSession xử lý GET /speech/sessions/:id
func (h *SpeechHandler) HandleGetSession(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		session, err := h.SpeechService.GetSession(c.Params("id"))
		basehdl.HandleResponse(c, session, err)
		return nil
	})
}

// HandleGetSupport xử lý GET /speech/support
// Cho client biết trước môi trường có hỗ trợ nhận dạng giọng nói không.
func (h *SpeechHandler) HandleGetSupport(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		basehdl.HandleResponse(c, fiber.Map{"supported": h.SpeechService.Supported()}, nil)
		return nil
	})
}
