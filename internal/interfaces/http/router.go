package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/privat-admin-api/internal/application/payments"
	"github.com/jhoicas/privat-admin-api/internal/application/reports"
	"github.com/jhoicas/privat-admin-api/internal/application/usecase"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC     *usecase.UserUseCase
	CreditUC   *usecase.CreditUseCase
	JobsUC     *usecase.JobsUseCase
	CategoryUC *usecase.CategoryUseCase
	Exports    *reports.ExportUseCase
	Checkout   *payments.CheckoutUseCase
	Webhook    *payments.WebhookUseCase
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Paddle: el webhook es público (autenticado por firma); el checkout requiere sesión.
	paddleHandler := NewPaddleHandler(deps.Checkout, deps.Webhook)
	api.Post("/paddle/webhook", paddleHandler.Webhook)
	api.Post("/paddle/create-checkout", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), paddleHandler.CreateCheckout)

	// Dashboard (solo admin)
	admin := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer), RequireRole(entity.RoleAdmin))

	userHandler := NewUserHandler(deps.UserUC, deps.Exports)
	creditHandler := NewCreditHandler(deps.CreditUC, deps.Exports)
	jobsHandler := NewJobsHandler(deps.JobsUC)

	users := admin.Group("/users")
	users.Get("/", userHandler.List)
	users.Get("/export", userHandler.Export)
	users.Get("/:id", userHandler.GetByID)
	users.Delete("/:id", userHandler.Delete)
	users.Patch("/:id/status", userHandler.UpdateStatus)
	users.Get("/:id/credits", creditHandler.Statement)
	users.Post("/:id/credits", creditHandler.Add)
	users.Post("/:id/credits/deduct", creditHandler.Deduct)
	users.Get("/:id/credits/export", creditHandler.Export)
	users.Get("/:id/customer-jobs", jobsHandler.CustomerJobs)
	users.Get("/:id/provider-jobs", jobsHandler.ProviderJobs)

	admin.Get("/packages", creditHandler.Packages)

	categories := admin.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
}
