package reports_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/privat-admin-api/internal/application/credits"
	"github.com/jhoicas/privat-admin-api/internal/application/reports"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

type stubUsers []entity.User

func (s stubUsers) ListUsers(context.Context) ([]entity.User, error) { return s, nil }

type stubStatements struct {
	st  *credits.Statement
	err error
}

func (s stubStatements) Statement(context.Context, string) (*credits.Statement, error) {
	return s.st, s.err
}

type recordingPDF struct{ got reports.Table }

func (r *recordingPDF) GenerateTablePDF(_ context.Context, t reports.Table) ([]byte, error) {
	r.got = t
	return []byte("%PDF-1.3"), nil
}

var day = time.Date(2026, 4, 9, 23, 30, 0, 0, time.UTC)

func TestEncodeCSV_EscapaCampos(t *testing.T) {
	out, err := reports.EncodeCSV(
		[]string{"Name", "Note"},
		[][]string{{"Rossi, Mario", `dice "ciao"`}, {"Bianchi", "riga1\nriga2"}, {"Verdi", "ok"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "Name,Note\n\"Rossi, Mario\",\"dice \"\"ciao\"\"\"\nBianchi,\"riga1\nriga2\"\nVerdi,ok\n", string(out))
}

func TestUsers_CSVConNombreFechado(t *testing.T) {
	users := stubUsers{{
		ID: "p1", Email: "p@example.it", CreatedAt: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Profile: entity.Profile{FullName: "Mario", Role: entity.RoleServiceProvider, Credits: 12, HasCredits: true, BusinessName: "Rossi Srl"},
	}}
	uc := reports.NewExportUseCase(users, nil, nil).WithClock(func() time.Time { return day })

	exp, err := uc.Users(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "users_2026-04-09.csv", exp.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType)
	assert.Equal(t,
		"Name,Email,Phone,Role,Status,Credits,Business,Created\nMario,p@example.it,,service_provider,active,12,Rossi Srl,2025-02-03\n",
		string(exp.Body))
}

func TestCreditStatement_PDF(t *testing.T) {
	st := &credits.Statement{UserID: "p1", Credits: 20, History: []entity.CreditTransaction{
		{Type: entity.CreditTypeAdd, Amount: 25, Description: "Purchased (Starter)", Source: entity.CreditSourcePayment, CreatedAt: day},
		{Type: entity.CreditTypeDeduct, Amount: 5, Description: "Lead unlocked (j1)", Source: entity.CreditSourceUnlock, CreatedAt: day},
	}}
	gen := &recordingPDF{}
	uc := reports.NewExportUseCase(nil, stubStatements{st: st}, gen).WithClock(func() time.Time { return day })

	exp, err := uc.CreditStatement(context.Background(), "p1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "credits_p1_2026-04-09.pdf", exp.Filename)
	assert.Equal(t, "application/pdf", exp.ContentType)
	assert.Equal(t, "Balance: 20 credits", gen.got.Subtitle)
	require.Len(t, gen.got.Rows, 2)
	assert.Equal(t, "+25", gen.got.Rows[0][2])
	assert.Equal(t, "-5", gen.got.Rows[1][2])
}

func TestExport_FormatoNoSoportado(t *testing.T) {
	uc := reports.NewExportUseCase(stubUsers{}, nil, nil)
	_, err := uc.Users(context.Background(), "xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreditStatement_PropagaUsuarioInexistente(t *testing.T) {
	uc := reports.NewExportUseCase(nil, stubStatements{err: domain.ErrUserNotFound}, nil)
	_, err := uc.CreditStatement(context.Background(), "ghost", "csv")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
