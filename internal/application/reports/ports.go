package reports

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// Table contenido tabular común a CSV y PDF.
type Table struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     [][]string
}

// TablePDFGenerator dibuja una tabla en PDF (implementado con Maroto en infrastructure/pdf).
type TablePDFGenerator interface {
	GenerateTablePDF(ctx context.Context, t Table) ([]byte, error)
}

// UserLister fuente del listado de usuarios (el snapshot del directorio).
type UserLister interface {
	ListUsers(ctx context.Context) ([]entity.User, error)
}

// StatementReader fuente del extracto de créditos.
type StatementReader interface {
	Statement(ctx context.Context, userID string) (*credits.Statement, error)
}
