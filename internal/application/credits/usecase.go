package credits

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
	"github.com/jhoicas/privat-admin-api/pkg/metrics"
)

// EventKindPaddleTransaction clave de idempotencia de las compras confirmadas por Paddle.
const EventKindPaddleTransaction = "paddle.transaction"

// Referencias de los ajustes que alinean el ledger con el saldo guardado en la metadata. Viven en
// el ledger pero no se replican en creditHistory: la app ya mostraba ese saldo.
const (
	openingBalanceRef  = "metadata:opening-balance"
	externalBalanceRef = "metadata:external-balance"
)

// PaymentGrant compra confirmada por el procesador de pagos.
type PaymentGrant struct {
	EventID       string
	TransactionID string
	UserID        string
	PackageID     string
}

// Statement saldo actual más la historia completa (orden de inserción).
type Statement struct {
	UserID  string
	Credits int64
	History []entity.CreditTransaction
}

// LedgerUseCase es el único escritor de créditos. Cada escritura corre en una transacción con la
// cuenta del usuario bloqueada (SELECT FOR UPDATE): movimiento, saldo y réplica en la metadata del
// proveedor de identidad se aplican juntos o no se aplican.
type LedgerUseCase struct {
	txRunner  LedgerTxRunner
	ledger    repository.CreditLedgerRepository
	identity  repository.IdentityRepository
	cache     CacheInvalidator
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time

	publishTimeout time.Duration
}

// defaultPublishTimeout tope para publicar un evento tras el commit; la respuesta HTTP no
// espera más que esto al bus.
const defaultPublishTimeout = 2 * time.Second

// NewLedgerUseCase construye el caso de uso. ledger es el repo atado al pool (lecturas fuera de tx).
func NewLedgerUseCase(
	txRunner LedgerTxRunner,
	ledger repository.CreditLedgerRepository,
	identity repository.IdentityRepository,
	cache CacheInvalidator,
	publisher EventPublisher,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		identity:  identity,
		cache:     cache,
		publisher: publisher,
		log:       log.Component("ledger"),
		now:       time.Now,

		publishTimeout: defaultPublishTimeout,
	}
}

// WithPublishTimeout cambia el tope de publicación de eventos.
func (uc *LedgerUseCase) WithPublishTimeout(d time.Duration) *LedgerUseCase {
	uc.publishTimeout = d
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// movement describe una escritura pendiente.
type movement struct {
	userID      string
	typ         string
	amount      int64
	description string
	source      string
	reference   string
	eventID     string
	eventKind   string
}

// GrantCredits suma créditos desde el panel de administración.
func (uc *LedgerUseCase) GrantCredits(ctx context.Context, userID string, amount int64, description string) (int64, error) {
	if userID == "" || amount <= 0 {
		return 0, domain.ErrInvalidInput
	}
	acc, _, err := uc.apply(ctx, movement{
		userID:      userID,
		typ:         entity.CreditTypeAdd,
		amount:      amount,
		description: description,
		source:      entity.CreditSourceAdmin,
	})
	if err != nil {
		return 0, err
	}
	return acc.Credits, nil
}

// DeductCredits descuenta créditos (desbloqueo de lead o corrección). Nunca deja saldo negativo.
func (uc *LedgerUseCase) DeductCredits(ctx context.Context, userID string, amount int64, description, source, reference string) (int64, error) {
	if userID == "" || amount <= 0 {
		return 0, domain.ErrInvalidInput
	}
	if source == "" {
		source = entity.CreditSourceAdmin
	}
	acc, _, err := uc.apply(ctx, movement{
		userID:      userID,
		typ:         entity.CreditTypeDeduct,
		amount:      amount,
		description: description,
		source:      source,
		reference:   reference,
	})
	if err != nil {
		return 0, err
	}
	return acc.Credits, nil
}

// GrantCreditsFromPayment acredita un paquete comprado. El monto sale del catálogo canónico,
// nunca del payload. Un evento ya procesado devuelve applied=false sin otorgar nada.
func (uc *LedgerUseCase) GrantCreditsFromPayment(ctx context.Context, g PaymentGrant) (int64, bool, error) {
	if g.UserID == "" || g.PackageID == "" {
		return 0, false, domain.ErrInvalidInput
	}
	pkg, ok := entity.FindCreditPackage(g.PackageID)
	if !ok {
		return 0, false, domain.ErrUnknownPackage
	}
	eventID := g.EventID
	if eventID == "" {
		eventID = g.TransactionID
	}
	acc, applied, err := uc.apply(ctx, movement{
		userID:      g.UserID,
		typ:         entity.CreditTypeAdd,
		amount:      pkg.Credits,
		description: fmt.Sprintf("Purchased (%s)", pkg.Name),
		source:      entity.CreditSourcePayment,
		reference:   g.TransactionID,
		eventID:     eventID,
		eventKind:   EventKindPaddleTransaction,
	})
	if err != nil {
		return 0, false, err
	}
	return acc.Credits, applied, nil
}

// MutateMetadata aplica fn sobre una copia de user_metadata y la escribe con la cuenta del
// usuario bloqueada, de modo que no pisa una escritura de créditos concurrente.
func (uc *LedgerUseCase) MutateMetadata(ctx context.Context, userID string, fn func(entity.Metadata) error) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	err := uc.txRunner.RunLedger(ctx, func(ledger repository.CreditLedgerRepository, _ repository.ProcessedEventRepository) error {
		_, ident, _, err := uc.lockOrSeed(ctx, ledger, userID)
		if err != nil {
			return err
		}
		meta := ident.UserMetadata.Clone()
		if err := fn(meta); err != nil {
			return err
		}
		// credits y creditHistory solo los escribe el ledger.
		restoreKey(meta, ident.UserMetadata, "credits")
		restoreKey(meta, ident.UserMetadata, "creditHistory")
		if err := uc.identity.UpdateUserMetadata(ctx, userID, meta); err != nil {
			return fmt.Errorf("%w: actualizar metadata: %v", domain.ErrUpstream, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// Seed crea la cuenta del usuario a partir de su metadata si el ledger aún no la conoce.
// Devuelve seeded=false si ya existía. No toca la metadata.
func (uc *LedgerUseCase) Seed(ctx context.Context, userID string) (balance int64, seeded bool, err error) {
	if userID == "" {
		return 0, false, domain.ErrInvalidInput
	}
	err = uc.txRunner.RunLedger(ctx, func(ledger repository.CreditLedgerRepository, _ repository.ProcessedEventRepository) error {
		acc, _, created, err := uc.lockOrSeed(ctx, ledger, userID)
		if err != nil {
			return err
		}
		balance, seeded = acc.Credits, created
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return balance, seeded, nil
}

// Statement saldo e historia. Si el ledger aún no conoce al usuario se lee la metadata heredada.
func (uc *LedgerUseCase) Statement(ctx context.Context, userID string) (*Statement, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	acc, err := uc.ledger.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		history, err := uc.ledger.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Statement{UserID: userID, Credits: acc.Credits, History: nonNil(history)}, nil
	}
	ident, err := uc.getIdentity(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := entity.ParseProfile(ident.UserMetadata)
	return &Statement{UserID: userID, Credits: p.Credits, History: nonNil(p.CreditHistory)}, nil
}

// Balance saldo actual.
func (uc *LedgerUseCase) Balance(ctx context.Context, userID string) (int64, error) {
	st, err := uc.Statement(ctx, userID)
	if err != nil {
		return 0, err
	}
	return st.Credits, nil
}

// History movimientos en orden de inserción.
func (uc *LedgerUseCase) History(ctx context.Context, userID string) ([]entity.CreditTransaction, error) {
	st, err := uc.Statement(ctx, userID)
	if err != nil {
		return nil, err
	}
	return st.History, nil
}

// apply ejecuta una escritura completa y, tras el Commit, invalida la caché y publica el evento.
func (uc *LedgerUseCase) apply(ctx context.Context, m movement) (*entity.CreditAccount, bool, error) {
	var (
		account *entity.CreditAccount
		written entity.CreditTransaction
		applied bool
	)
	err := uc.txRunner.RunLedger(ctx, func(ledger repository.CreditLedgerRepository, events repository.ProcessedEventRepository) error {
		if m.eventID != "" {
			fresh, err := events.MarkProcessed(ctx, m.eventID, m.eventKind, m.reference)
			if err != nil {
				return err
			}
			if !fresh {
				acc, err := ledger.GetAccount(ctx, m.userID)
				if err != nil {
					return err
				}
				if acc == nil {
					acc = &entity.CreditAccount{UserID: m.userID}
				}
				account = acc
				return nil
			}
		}

		acc, ident, _, err := uc.lockOrSeed(ctx, ledger, m.userID)
		if err != nil {
			return err
		}
		if m.typ == entity.CreditTypeDeduct && acc.Credits < m.amount {
			return domain.ErrInsufficientCredits
		}

		now := uc.now().UTC()
		tx := entity.CreditTransaction{
			ID:          uuid.New().String(),
			UserID:      m.userID,
			Type:        m.typ,
			Amount:      m.amount,
			Description: m.description,
			Source:      m.source,
			Reference:   m.reference,
			CreatedAt:   now,
		}
		if err := ledger.Append(ctx, &tx); err != nil {
			return err
		}

		meta := ident.UserMetadata.Clone()
		acc.Credits += tx.Signed()
		acc.Version++
		acc.UpdatedAt = now
		acc.MetadataEntries = appendCreditEntry(meta, acc.Credits, tx)
		if err := ledger.UpdateAccount(ctx, acc); err != nil {
			return err
		}
		if err := uc.identity.UpdateUserMetadata(ctx, m.userID, meta); err != nil {
			return fmt.Errorf("%w: replicar créditos en metadata: %v", domain.ErrUpstream, err)
		}

		account, written, applied = acc, tx, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !applied {
		uc.log.Info().Str("user_id", m.userID).Str("event_id", m.eventID).Str("reference", m.reference).
			Msg("evento ya procesado, no se otorgan créditos")
		return account, false, nil
	}

	uc.log.Info().
		Str("user_id", m.userID).
		Str("type", written.Type).
		Int64("amount", written.Amount).
		Int64("balance", account.Credits).
		Str("source", written.Source).
		Str("reference", written.Reference).
		Msg("movimiento de créditos registrado")
	metrics.CreditTransactions.WithLabelValues(written.Type, written.Source).Inc()
	metrics.CreditAmount.WithLabelValues(written.Type).Add(float64(written.Amount))

	uc.invalidate(ctx)
	if uc.publisher != nil {
		evt := CreditEvent{
			TransactionID: written.ID,
			UserID:        written.UserID,
			Type:          written.Type,
			Amount:        written.Amount,
			Balance:       account.Credits,
			Source:        written.Source,
			Reference:     written.Reference,
			Description:   written.Description,
			OccurredAt:    written.CreatedAt,
		}
		// El movimiento ya está confirmado: la publicación no hereda la cancelación del request.
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.publishTimeout)
		err := uc.publisher.PublishCreditEvent(pctx, evt)
		cancel()
		if err != nil {
			uc.log.Warn().Err(err).Str("transaction_id", written.ID).Msg("publicar evento de créditos")
		}
	}
	return account, true, nil
}

// lockOrSeed bloquea la cuenta del usuario, lee su identidad con el bloqueo tomado y pone la
// cuenta al día con la metadata. En el primer contacto la cuenta se crea y se siembra con el
// creditHistory heredado.
func (uc *LedgerUseCase) lockOrSeed(
	ctx context.Context,
	ledger repository.CreditLedgerRepository,
	userID string,
) (*entity.CreditAccount, *entity.Identity, bool, error) {
	created, err := ledger.EnsureAccount(ctx, userID)
	if err != nil {
		return nil, nil, false, err
	}
	acc, err := ledger.LockAccount(ctx, userID)
	if err != nil {
		return nil, nil, false, err
	}
	ident, err := uc.getIdentity(ctx, userID)
	if err != nil {
		return nil, nil, false, err
	}
	if created {
		acc.MetadataEntries = 0
	}
	if err := uc.reconcile(ctx, ledger, acc, ident, created); err != nil {
		return nil, nil, false, err
	}
	return acc, ident, created, nil
}

// reconcile importa al ledger las entradas de creditHistory que aún no conoce (otro escritor, como
// el desbloqueo de leads de la app, puede agregarlas) y, si el saldo guardado en la metadata sigue
// sin coincidir, agrega un ajuste para que el ledger parta de ese saldo. Corre con la cuenta bloqueada.
func (uc *LedgerUseCase) reconcile(
	ctx context.Context,
	ledger repository.CreditLedgerRepository,
	acc *entity.CreditAccount,
	ident *entity.Identity,
	seeding bool,
) error {
	raw := entity.RawCreditHistory(ident.UserMetadata)
	start := acc.MetadataEntries
	switch {
	case start < 0:
		// Cuenta sembrada antes de seguir el largo de la réplica: la metadata actual es la base.
		start = len(raw)
	case start > len(raw):
		uc.log.Warn().
			Str("user_id", ident.ID).
			Int("known", start).
			Int("found", len(raw)).
			Msg("creditHistory recortado fuera del ledger, se toma la metadata actual como base")
		start = len(raw)
	}

	now := uc.now().UTC()
	dirty := seeding || acc.MetadataEntries != len(raw)
	for i := start; i < len(raw); i++ {
		t, ok := entity.ParseCreditEntry(raw[i])
		if !ok {
			continue
		}
		t.ID = uuid.New().String()
		t.UserID = ident.ID
		t.Reference = "metadata:" + strconv.Itoa(i)
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		if err := ledger.Append(ctx, &t); err != nil {
			return err
		}
		acc.Credits += t.Signed()
		acc.Version++
	}
	if !seeding && start < len(raw) {
		uc.log.Info().
			Str("user_id", ident.ID).
			Int("entries", len(raw)-start).
			Msg("movimientos externos importados desde creditHistory")
	}
	acc.MetadataEntries = len(raw)

	if stored, ok := ident.UserMetadata.Int64("credits"); ok && stored != acc.Credits {
		ref := externalBalanceRef
		if seeding {
			ref = openingBalanceRef
		}
		uc.log.Warn().
			Str("user_id", ident.ID).
			Int64("stored", stored).
			Int64("ledger", acc.Credits).
			Str("reference", ref).
			Msg("saldo de la metadata no coincide con el ledger, se agrega ajuste")
		adj := entity.CreditTransaction{
			ID:          uuid.New().String(),
			UserID:      ident.ID,
			Type:        entity.CreditTypeAdd,
			Amount:      stored - acc.Credits,
			Description: "Balance adjustment",
			Source:      entity.CreditSourceLegacy,
			Reference:   ref,
			CreatedAt:   now,
		}
		if adj.Amount < 0 {
			adj.Type, adj.Amount = entity.CreditTypeDeduct, -adj.Amount
		}
		if err := ledger.Append(ctx, &adj); err != nil {
			return err
		}
		acc.Credits = stored
		acc.Version++
		dirty = true
	}

	if !dirty {
		return nil
	}
	acc.UpdatedAt = now
	return ledger.UpdateAccount(ctx, acc)
}

func (uc *LedgerUseCase) getIdentity(ctx context.Context, userID string) (*entity.Identity, error) {
	ident, err := uc.identity.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: leer usuario: %v", domain.ErrUpstream, err)
	}
	if ident == nil {
		return nil, domain.ErrUserNotFound
	}
	return ident, nil
}

func (uc *LedgerUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("invalidar caché del directorio")
	}
}

// appendCreditEntry agrega el movimiento al final de creditHistory sin reescribir las entradas
// existentes y actualiza credits. Devuelve el largo resultante del arreglo.
func appendCreditEntry(meta entity.Metadata, balance int64, t entity.CreditTransaction) int {
	raw := entity.RawCreditHistory(meta)
	history := make([]any, 0, len(raw)+1)
	history = append(history, raw...)
	history = append(history, entity.CreditHistoryEntry(t))
	meta["credits"] = balance
	meta["creditHistory"] = history
	return len(history)
}

func restoreKey(dst, src entity.Metadata, key string) {
	if v, ok := src[key]; ok {
		dst[key] = v
		return
	}
	delete(dst, key)
}

func nonNil(h []entity.CreditTransaction) []entity.CreditTransaction {
	if h == nil {
		return []entity.CreditTransaction{}
	}
	return h
}
