package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/spec-kit/club-service/internal/domain"
)

// ProfileUpdateRequest carries the self-editable profile fields. Identity and
// lifecycle fields are not representable here; unknown JSON keys are dropped
// by the decoder.
type ProfileUpdateRequest struct {
	Name      *string  `json:"name"`
	Phone     *string  `json:"phone"`
	Bio       *string  `json:"bio"`
	AvatarURL *string  `json:"avatar_url"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// Validate enforces the profile update contract.
func (r ProfileUpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Phone, validation.NilOrNotEmpty, validation.Length(10, 10), is.Digit),
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.AvatarURL, validation.NilOrNotEmpty, is.URL),
	)
}

// AccountStatusRequest is the administrative activation override.
type AccountStatusRequest struct {
	Active *bool `json:"active"`
}

// Validate enforces the status override contract.
func (r AccountStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Active, validation.NotNil),
	)
}

// AccountRoleRequest is the administrative role override.
type AccountRoleRequest struct {
	Role string `json:"role"`
}

// Validate enforces the role override contract.
func (r AccountRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required),
	)
}

// AccountResponse is the public shape of an account. The password hash and
// OTP fields never appear here.
type AccountResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	EnrollmentNo    string    `json:"enrollment_no"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Branch          string    `json:"branch"`
	Year            string    `json:"year"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	IsActive        bool      `json:"is_active"`
	Bio             string    `json:"bio,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Skills          []string  `json:"skills,omitempty"`
	Interests       []string  `json:"interests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewAccountResponse maps a domain account to its public shape.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:              account.ID,
		Email:           account.Email,
		EnrollmentNo:    account.EnrollmentNo,
		Name:            account.Name,
		Phone:           account.Phone,
		Branch:          string(account.Branch),
		Year:            string(account.Year),
		Role:            string(account.Role),
		IsEmailVerified: account.IsEmailVerified,
		IsActive:        account.IsActive,
		Bio:             account.Bio,
		AvatarURL:       account.AvatarURL,
		Skills:          account.Skills,
		Interests:       account.Interests,
		CreatedAt:       account.CreatedAt,
	}
}
