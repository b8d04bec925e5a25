// Package reports arma las exportaciones CSV y PDF del dashboard.
package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// Formatos de exportación.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Export archivo listo para descargar.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportUseCase genera los reportes de usuarios y de créditos.
type ExportUseCase struct {
	users      UserLister
	statements StatementReader
	pdf        TablePDFGenerator
	now        func() time.Time
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(users UserLister, statements StatementReader, pdf TablePDFGenerator) *ExportUseCase {
	return &ExportUseCase{users: users, statements: statements, pdf: pdf, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ExportUseCase) WithClock(now func() time.Time) *ExportUseCase {
	uc.now = now
	return uc
}

// Users listado del directorio (sin admins).
func (uc *ExportUseCase) Users(ctx context.Context, format string) (*Export, error) {
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	t := Table{
		Title:   "Users",
		Headers: []string{"Name", "Email", "Phone", "Role", "Status", "Credits", "Business", "Created"},
		Rows:    make([][]string, 0, len(users)),
	}
	for _, u := range users {
		p := u.Profile
		credits := ""
		if p.HasCredits {
			credits = strconv.FormatInt(p.Credits, 10)
		}
		status := p.Status
		if status == "" {
			status = entity.StatusActive
		}
		t.Rows = append(t.Rows, []string{
			p.FullName, u.Email, u.Phone, p.Role, status, credits, p.BusinessName,
			u.CreatedAt.UTC().Format("2006-01-02"),
		})
	}
	t.Subtitle = fmt.Sprintf("%d users", len(users))
	return uc.render(ctx, "users", format, t)
}

// CreditStatement historial de créditos de un usuario.
func (uc *ExportUseCase) CreditStatement(ctx context.Context, userID, format string) (*Export, error) {
	st, err := uc.statements.Statement(ctx, userID)
	if err != nil {
		return nil, err
	}
	t := Table{
		Title:    "Credit history " + userID,
		Subtitle: fmt.Sprintf("Balance: %d credits", st.Credits),
		Headers:  []string{"Date", "Type", "Amount", "Description", "Source"},
		Rows:     make([][]string, 0, len(st.History)),
	}
	for _, tx := range st.History {
		amount := strconv.FormatInt(tx.Amount, 10)
		if tx.Type == entity.CreditTypeDeduct {
			amount = "-" + amount
		} else {
			amount = "+" + amount
		}
		t.Rows = append(t.Rows, []string{
			tx.CreatedAt.UTC().Format("2006-01-02 15:04"), tx.Type, amount, tx.Description, tx.Source,
		})
	}
	return uc.render(ctx, "credits_"+userID, format, t)
}

func (uc *ExportUseCase) render(ctx context.Context, base, format string, t Table) (*Export, error) {
	name := base + "_" + uc.now().UTC().Format("2006-01-02")
	switch format {
	case "", FormatCSV:
		body, err := EncodeCSV(t.Headers, t.Rows)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: name + ".csv", ContentType: "text/csv; charset=utf-8", Body: body}, nil
	case FormatPDF:
		if uc.pdf == nil {
			return nil, fmt.Errorf("reports: generador PDF no configurado")
		}
		body, err := uc.pdf.GenerateTablePDF(ctx, t)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: name + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrInvalidInput, format)
	}
}

// EncodeCSV cabecera más filas; los campos con coma, comillas o salto de línea van entre comillas.
func EncodeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("reports: escribir cabecera csv: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("reports: escribir filas csv: %w", err)
	}
	return buf.Bytes(), nil
}
