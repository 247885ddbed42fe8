package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costing-ledger/internal/application/accounting"
	"github.com/jhoicas/costing-ledger/internal/application/dto"
	"github.com/jhoicas/costing-ledger/pkg/logger"
)

// JournalHandler contabilización manual y consulta de asientos (protegido).
type JournalHandler struct {
	uc  *accounting.PostingUseCase
	log *logger.Logger
}

// NewJournalHandler construye el handler.
func NewJournalHandler(uc *accounting.PostingUseCase, log *logger.Logger) *JournalHandler {
	return &JournalHandler{uc: uc, log: log}
}

// Post godoc
// @Summary      Contabilizar asiento
// @Description  Las líneas deben cuadrar exactamente (suma débitos = suma créditos).
// @Tags         journals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostJournalRequest  true  "memo, date opcional, lines"
// @Success      201   {object}  dto.JournalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/journals [post]
func (h *JournalHandler) Post(c *fiber.Ctx) error {
	var in dto.PostJournalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	lines := make([]accounting.PostLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, accounting.PostLine{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			RefType:     l.RefType,
			RefID:       l.RefID,
		})
	}
	j, err := h.uc.Post(c.Context(), accounting.PostRequest{
		Lines: lines,
		Memo:  in.Memo,
		Actor: GetUserID(c),
		Date:  dto.DateOrZero(in.Date),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromJournal(j))
}

// GetByID godoc
// @Summary      Obtener asiento con sus líneas
// @Tags         journals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del asiento"
// @Success      200  {object}  dto.JournalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/journals/{id} [get]
func (h *JournalHandler) GetByID(c *fiber.Ctx) error {
	j, err := h.uc.GetJournal(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.FromJournal(j))
}
