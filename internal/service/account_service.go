package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/repository"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// AccountService handles profile reads, self-edits and administrative
// overrides.
type AccountService struct {
	accounts repository.AccountRepository
}

// NewAccountService builds the service.
func NewAccountService(accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// ProfileUpdateInput carries the self-editable profile fields. Identity,
// credential and lifecycle fields cannot travel through this path.
type ProfileUpdateInput struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
	Skills    []string
	Interests []string
}

// GetProfile returns the account without its secret.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// UpdateProfile applies the self-editable subset of fields.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, input ProfileUpdateInput) (*domain.Account, error) {
	patch := repository.ProfilePatch{
		Phone:     input.Phone,
		Bio:       input.Bio,
		AvatarURL: input.AvatarURL,
		Skills:    input.Skills,
		Interests: input.Interests,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		patch.Name = &trimmed
	}

	account, err := s.accounts.UpdateProfile(ctx, accountID, patch)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// SetActive is the administrative deactivation/reactivation override.
func (s *AccountService) SetActive(ctx context.Context, accountID string, active bool) error {
	if err := s.accounts.SetActive(ctx, accountID, active); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("account", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// SetRole changes an account's role. Site-admin only at the transport layer.
func (s *AccountService) SetRole(ctx context.Context, accountID string, role domain.Role) error {
	switch role {
	case domain.RoleMember, domain.RoleClubAdmin, domain.RoleSiteAdmin:
	default:
		return apperrors.NewValidationError("invalid role", map[string]any{"role": string(role)})
	}
	if err := s.accounts.SetRole(ctx, accountID, role); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("account", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}
