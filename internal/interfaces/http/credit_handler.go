package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/privat-admin-api/internal/application/dto"
	"github.com/jhoicas/privat-admin-api/internal/application/reports"
	"github.com/jhoicas/privat-admin-api/internal/application/usecase"
)

// CreditHandler ledger de créditos (solo admin).
type CreditHandler struct {
	uc      *usecase.CreditUseCase
	exports *reports.ExportUseCase
}

// NewCreditHandler construye el handler.
func NewCreditHandler(uc *usecase.CreditUseCase, exports *reports.ExportUseCase) *CreditHandler {
	return &CreditHandler{uc: uc, exports: exports}
}

// Add godoc
// @Summary      Acreditar créditos manualmente
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.AddCreditsRequest  true  "credits > 0 y nombre del paquete"
// @Success      200   {object}  dto.CreditsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/credits [post]
func (h *CreditHandler) Add(c *fiber.Ctx) error {
	var in dto.AddCreditsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddCredits(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deduct godoc
// @Summary      Descontar créditos (corrección o desbloqueo de lead)
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del usuario"
// @Param        body  body  dto.DeductCreditsRequest  true  "credits > 0 y motivo"
// @Success      200   {object}  dto.CreditsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/credits/deduct [post]
func (h *CreditHandler) Deduct(c *fiber.Ctx) error {
	var in dto.DeductCreditsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.DeductCredits(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Saldo e historial de créditos
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.CreditStatementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/credits [get]
func (h *CreditHandler) Statement(c *fiber.Ctx) error {
	out, err := h.uc.Statement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar historial de créditos (csv o pdf)
// @Tags         credits
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/pdf
// @Param        id      path   string  true   "ID del usuario"
// @Param        format  query  string  false  "csv | pdf"  default(csv)
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/credits/export [get]
func (h *CreditHandler) Export(c *fiber.Ctx) error {
	exp, err := h.exports.CreditStatement(c.UserContext(), c.Params("id"), c.Query("format", reports.FormatCSV))
	if err != nil {
		return writeError(c, err)
	}
	return sendExport(c, exp)
}

// Packages godoc
// @Summary      Catálogo de paquetes de créditos
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CreditPackageResponse
// @Router       /api/packages [get]
func (h *CreditHandler) Packages(c *fiber.Ctx) error {
	return c.JSON(h.uc.Packages())
}
