package directory

import (
	"context"
	"fmt"

	"github.com/jhoicas/privat-admin-api/internal/domain"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
	"github.com/jhoicas/privat-admin-api/internal/domain/repository"
	"github.com/jhoicas/privat-admin-api/pkg/logger"
)

// MetadataWriter escritura serializada de user_metadata (la implementa el ledger de créditos,
// que bloquea la cuenta del usuario mientras escribe).
type MetadataWriter interface {
	MutateMetadata(ctx context.Context, userID string, fn func(entity.Metadata) error) error
}

// UserDetail identidad cruda más sus códigos de referido e historial de suscripciones.
type UserDetail struct {
	Identity            *entity.Identity
	ReferralCodes       []*entity.ReferralCode
	SubscriptionHistory []*entity.SubscriptionHistoryItem
}

// UserService operaciones de administración sobre el directorio.
type UserService struct {
	cache         *Cache
	identity      repository.IdentityRepository
	referrals     repository.ReferralCodeRepository
	subscriptions repository.SubscriptionHistoryRepository
	writer        MetadataWriter
	log           *logger.Logger
}

// NewUserService construye el servicio.
func NewUserService(
	cache *Cache,
	identity repository.IdentityRepository,
	referrals repository.ReferralCodeRepository,
	subscriptions repository.SubscriptionHistoryRepository,
	writer MetadataWriter,
	log *logger.Logger,
) *UserService {
	if log == nil {
		log = logger.Nop()
	}
	return &UserService{
		cache:         cache,
		identity:      identity,
		referrals:     referrals,
		subscriptions: subscriptions,
		writer:        writer,
		log:           log.Component("users"),
	}
}

// List usuarios no admin desde el snapshot.
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.cache.ListUsers(ctx)
}

// Get detalle de un usuario. Referidos y suscripciones fallidos se degradan a listas vacías.
func (s *UserService) Get(ctx context.Context, id string) (*UserDetail, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	ident, err := s.identity.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: leer usuario: %v", domain.ErrUpstream, err)
	}
	if ident == nil {
		return nil, domain.ErrUserNotFound
	}
	detail := &UserDetail{
		Identity:            ident,
		ReferralCodes:       []*entity.ReferralCode{},
		SubscriptionHistory: []*entity.SubscriptionHistoryItem{},
	}
	if s.referrals != nil {
		if codes, err := s.referrals.ListReferralCodes(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("listar referral_codes")
		} else if codes != nil {
			detail.ReferralCodes = codes
		}
	}
	if s.subscriptions != nil {
		if subs, err := s.subscriptions.ListSubscriptionHistory(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("listar subscription_history")
		} else if subs != nil {
			detail.SubscriptionHistory = subs
		}
	}
	return detail, nil
}

// Delete elimina la identidad e invalida el snapshot.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := s.identity.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: eliminar usuario: %v", domain.ErrUpstream, err)
	}
	s.log.Info().Str("user_id", id).Msg("usuario eliminado")
	s.invalidate(ctx)
	return nil
}

// SetStatus fija status en la metadata; valores no válidos quedan en "active".
func (s *UserService) SetStatus(ctx context.Context, id, status string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidInput
	}
	status = entity.NormalizeStatus(status)
	err := s.writer.MutateMetadata(ctx, id, func(m entity.Metadata) error {
		m["status"] = status
		return nil
	})
	if err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", id).Str("status", status).Msg("estado de usuario actualizado")
	s.invalidate(ctx)
	return status, nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("invalidar caché del directorio")
	}
}
