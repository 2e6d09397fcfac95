// Package handler - xử lý HTTP request cho các endpoint AI.
// Các endpoint này luôn trả 200 khi input hợp lệ: service đã tự fallback,
// handler không bao giờ thấy lỗi từ upstream.
package handler

import (
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/ai/dto"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/ai/service"
	basehdl "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/base/handler"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"

	"github.com/gofiber/fiber/v3"
)

// AIHandler là cấu trúc chứa các phương thức xử lý request cho AI
type AIHandler struct {
	AIService *service.AITextService
}

// NewAIHandler tạo mới AIHandler
func NewAIHandler() *AIHandler {
	return &AIHandler{AIService: service.NewAITextService()}
}

func bindTextInput(c fiber.Ctx) (*dto.AITextInput, error) {
	var input dto.AITextInput
	if err := c.Bind().Body(&input); err != nil {
		return nil, common.ErrInvalidFormat
	}
	if err := global.Validate.Struct(&input); err != nil {
		return nil, common.NewError(common.ErrCodeValidationInput,
			common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return &input, nil
}

// HandleSummarize xử lý POST /ai/summarize
func (h *AIHandler) HandleSummarize(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		input, err := bindTextInput(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		summary := h.AIService.SummarizeText(c.Context(), input.Text)
		basehdl.HandleResponse(c, dto.AISummaryResponse{Summary: summary}, nil)
		return nil
	})
}

// HandleExtractTags xử lý POST /ai/tags
func (h *AIHandler) HandleExtractTags(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		input, err := bindTextInput(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		tags := h.AIService.ExtractTags(c.Context(), input.Text)
		basehdl.HandleResponse(c, dto.AITagsResponse{Tags: tags}, nil)
		return nil
	})
}

// HandleSmartReminder xử lý POST /ai/reminder
func (h *AIHandler) HandleSmartReminder(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input dto.AIReminderInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}
		message := h.AIService.GenerateSmartReminder(c.Context(), input.Title, input.Content)
		basehdl.HandleResponse(c, dto.AIReminderResponse{Message: message}, nil)
		return nil
	})
}

// HandleEnhance xử lý POST /ai/enhance
func (h *AIHandler) HandleEnhance(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		input, err := bindTextInput(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		enhanced := h.AIService.EnhanceText(c.Context(), input.Text)
		basehdl.HandleResponse(c, dto.AIEnhanceResponse{Text: enhanced}, nil)
		return nil
	})
}
