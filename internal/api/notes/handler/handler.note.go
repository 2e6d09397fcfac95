// Package handler - xử lý HTTP request cho domain notes.
package handler

import (
	"time"

	basehdl "github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/base/handler"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/middleware"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/dto"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/api/notes/service"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/common"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"

	"github.com/gofiber/fiber/v3"
)

// NoteHandler là cấu trúc chứa các phương thức xử lý request cho notes
type NoteHandler struct {
	NoteService *service.NoteService
}

// NewNoteHandler tạo mới NoteHandler
func NewNoteHandler() (*NoteHandler, error) {
	noteService, err := service.NewNoteService()
	if err != nil {
		return nil, err
	}
	return &NoteHandler{NoteService: noteService}, nil
}

// validateReminder chặn reminder đang bật nhưng trỏ về quá khứ.
// Rule này chỉ nằm ở tầng HTTP, tầng service không áp đặt.
func validateReminder(reminder *dto.NoteReminderInput) error {
	if reminder == nil || !reminder.IsActive {
		return nil
	}
	if reminder.Date <= time.Now().UnixMilli() {
		return common.NewError(common.ErrCodeValidationInput,
			"Thời gian nhắc nhở phải ở tương lai", common.StatusBadRequest, nil)
	}
	return nil
}

// HandleCreateNote xử lý POST /notes
func (h *NoteHandler) HandleCreateNote(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID := middleware.GetUserID(c)

		var input dto.NoteCreateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}
		if err := validateReminder(input.Reminder); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		note, err := h.NoteService.CreateNote(c.Context(), userID, &input)
		basehdl.HandleResponse(c, note, err)
		return nil
	})
}

// HandleUpdateNote xử lý PATCH /notes/:id
func (h *NoteHandler) HandleUpdateNote(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		noteID := c.Params("id")

		var input dto.NoteUpdateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}
		if !input.HasChanges() {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Không có trường nào để cập nhật", common.StatusBadRequest, nil))
			return nil
		}
		if err := validateReminder(input.Reminder); err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		note, err := h.NoteService.UpdateNote(c.Context(), noteID, &input)
		basehdl.HandleResponse(c, note, err)
		return nil
	})
}

// HandleDeleteNote xử lý DELETE /notes/:id
func (h *NoteHandler) HandleDeleteNote(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		err := h.NoteService.DeleteNote(c.Context(), c.Params("id"))
		basehdl.HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
		return nil
	})
}

// HandleGetNote xử lý GET /notes/:id
func (h *NoteHandler) HandleGetNote(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		note, err := h.NoteService.GetNote(c.Context(), c.Params("id"))
		basehdl.HandleResponse(c, note, err)
		return nil
	})
}

// HandleGetUserNotes xử lý GET /notes
func (h *NoteHandler) HandleGetUserNotes(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		userID := middleware.GetUserID(c)
		notes, err := h.NoteService.GetUserNotes(c.Context(), userID)
		basehdl.HandleResponse(c, notes, err)
		return nil
	})
}
