package usecase

import (
	"context"

	"github.com/jhoicas/privat-admin-api/internal/application/directory"
	"github.com/jhoicas/privat-admin-api/internal/application/dto"
	"github.com/jhoicas/privat-admin-api/internal/domain/entity"
)

// UserUseCase expone el directorio de usuarios en forma de DTO.
type UserUseCase struct {
	svc *directory.UserService
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(svc *directory.UserService) *UserUseCase {
	return &UserUseCase{svc: svc}
}

// List usuarios no admin (snapshot con TTL).
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

// Get detalle con referidos e historial de suscripciones.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*dto.UserDetailResponse, error) {
	detail, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.UserDetailResponse{
		User:                toIdentityResponse(detail.Identity),
		ReferralCodes:       make([]dto.ReferralCodeResponse, 0, len(detail.ReferralCodes)),
		SubscriptionHistory: make([]dto.SubscriptionHistoryResponse, 0, len(detail.SubscriptionHistory)),
	}
	for _, c := range detail.ReferralCodes {
		out.ReferralCodes = append(out.ReferralCodes, dto.ReferralCodeResponse{
			ID:        c.ID,
			Code:      c.Code,
			UserID:    c.UserID,
			Uses:      c.Uses,
			MaxUses:   c.MaxUses,
			CreatedAt: c.CreatedAt,
			ExpiresAt: c.ExpiresAt,
		})
	}
	for _, s := range detail.SubscriptionHistory {
		out.SubscriptionHistory = append(out.SubscriptionHistory, dto.SubscriptionHistoryResponse{
			ID:        s.ID,
			UserID:    s.UserID,
			Plan:      s.Plan,
			Status:    s.Status,
			StartedAt: s.StartedAt,
			EndedAt:   s.EndedAt,
			Amount:    s.Amount,
			Currency:  s.Currency,
		})
	}
	return out, nil
}

// Delete elimina la identidad.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	return uc.svc.Delete(ctx, id)
}

// SetStatus fija el estado; devuelve el estado efectivamente guardado.
func (uc *UserUseCase) SetStatus(ctx context.Context, id string, in dto.UpdateStatusRequest) (string, error) {
	return uc.svc.SetStatus(ctx, id, in.Status)
}

func toUserResponse(u *entity.User) dto.UserResponse {
	p := u.Profile
	out := dto.UserResponse{
		ID:                     u.ID,
		Email:                  u.Email,
		CreatedAt:              u.CreatedAt,
		LastSignInAt:           u.LastSignInAt,
		Phone:                  u.Phone,
		FullName:               p.FullName,
		AvatarURL:              p.AvatarURL,
		Role:                   p.Role,
		Status:                 entity.NormalizeStatus(p.Status),
		Latitude:               p.Latitude,
		Longitude:              p.Longitude,
		Categories:             p.Categories,
		JobsQuoted:             toJobRefs(p.JobsQuoted),
		ServiceArea:            p.ServiceArea,
		BusinessName:           p.BusinessName,
		DocumentURL:            p.DocumentURL,
		JobLeadsPaid:           toJobRefs(p.JobLeadsPaid),
		BusinessPhone:          p.BusinessPhone,
		EmailVerified:          p.EmailVerified,
		PhoneVerified:          p.PhoneVerified,
		ConsentBackgroundCheck: p.ConsentBackgroundCheck,
		ConfirmedAt:            u.ConfirmedAt,
		BannedUntil:            u.BannedUntil,
	}
	if p.HasCredits {
		credits := p.Credits
		out.Credits = &credits
	}
	if len(p.CreditHistory) > 0 {
		out.CreditHistory = make([]dto.CreditHistoryItemResponse, 0, len(p.CreditHistory))
		for _, t := range p.CreditHistory {
			out.CreditHistory = append(out.CreditHistory, dto.CreditHistoryItemResponse{
				Type:        t.Type,
				Amount:      t.Amount,
				CreatedAt:   t.CreatedAt,
				Description: t.Description,
			})
		}
	}
	return out
}

func toJobRefs(refs []entity.JobRef) []dto.JobRefResponse {
	if len(refs) == 0 {
		return nil
	}
	out := make([]dto.JobRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, dto.JobRefResponse{JobID: r.JobID})
	}
	return out
}

func toIdentityResponse(i *entity.Identity) dto.IdentityResponse {
	userMeta := map[string]any(i.UserMetadata)
	if userMeta == nil {
		userMeta = map[string]any{}
	}
	appMeta := map[string]any(i.AppMetadata)
	if appMeta == nil {
		appMeta = map[string]any{}
	}
	return dto.IdentityResponse{
		ID:           i.ID,
		Email:        i.Email,
		Phone:        i.Phone,
		CreatedAt:    i.CreatedAt,
		LastSignInAt: i.LastSignInAt,
		ConfirmedAt:  i.ConfirmedAt,
		BannedUntil:  i.BannedUntil,
		Status:       entity.NormalizeStatus(i.UserMetadata.String("status")),
		UserMetadata: userMeta,
		AppMetadata:  appMeta,
	}
}
