package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/privat-admin-api/internal/application/usecase"
)

// JobsHandler buckets de trabajos por usuario.
type JobsHandler struct {
	uc *usecase.JobsUseCase
}

// NewJobsHandler construye el handler.
func NewJobsHandler(uc *usecase.JobsUseCase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

// CustomerJobs godoc
// @Summary      Trabajos del cliente (open, active, completed)
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerJobsResponse
// @Router       /api/users/{id}/customer-jobs [get]
func (h *JobsHandler) CustomerJobs(c *fiber.Ctx) error {
	out, err := h.uc.CustomerJobs(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProviderJobs godoc
// @Summary      Trabajos del proveedor (leads, quotes, active, completed)
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proveedor"
// @Success      200  {object}  dto.ProviderJobsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/provider-jobs [get]
func (h *JobsHandler) ProviderJobs(c *fiber.Ctx) error {
	out, err := h.uc.ProviderJobs(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
