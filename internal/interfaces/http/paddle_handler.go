package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/privat-admin-api/internal/application/dto"
	"github.com/jhoicas/privat-admin-api/internal/application/payments"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// PaddleSignatureHeader cabecera con la firma del webhook.
const PaddleSignatureHeader = "Paddle-Signature"

// PaddleHandler checkout y webhook de Paddle Billing.
type PaddleHandler struct {
	checkout *payments.CheckoutUseCase
	webhook  *payments.WebhookUseCase
}

// NewPaddleHandler construye el handler.
func NewPaddleHandler(checkout *payments.CheckoutUseCase, webhook *payments.WebhookUseCase) *PaddleHandler {
	return &PaddleHandler{checkout: checkout, webhook: webhook}
}

// CreateCheckout godoc
// @Summary      Crear transacción de Paddle para un paquete de créditos
// @Description  Un usuario solo puede comprar para sí mismo; un admin puede hacerlo para cualquiera.
// @Tags         paddle
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCheckoutRequest  true  "userId y packageId"
// @Success      200   {object}  dto.CreateCheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/paddle/create-checkout [post]
func (h *PaddleHandler) CreateCheckout(c *fiber.Ctx) error {
	var in dto.CreateCheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.UserID == "" || in.PackageID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Missing userId or packageId"})
	}
	if GetRole(c) != entity.RoleAdmin && GetUserID(c) != in.UserID {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puede comprar créditos para su propia cuenta"})
	}
	id, err := h.checkout.CreateCheckout(c.UserContext(), in.UserID, in.PackageID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CreateCheckoutResponse{TransactionID: id})
}

// Webhook godoc
// @Summary      Webhook de Paddle (firmado)
// @Description  Responde {ok:true} también para eventos ignorados y repetidos; 401 si la firma no es válida.
// @Tags         paddle
// @Accept       json
// @Produce      json
// @Param        Paddle-Signature  header  string  true  "ts=...;h1=..."
// @Success      200  {object}  dto.OKResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/paddle/webhook [post]
func (h *PaddleHandler) Webhook(c *fiber.Ctx) error {
	// c.Body() se reutiliza por fasthttp; la firma se calcula sobre una copia.
	raw := append([]byte(nil), c.Body()...)
	if _, err := h.webhook.HandleWebhook(c.UserContext(), raw, c.Get(PaddleSignatureHeader)); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) || errors.Is(err, domain.ErrInvalidInput) {
			return writeError(c, err)
		}
		// Cualquier otro fallo responde 500 para que Paddle reintente la entrega.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "WEBHOOK_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.OKResponse{OK: true})
}
