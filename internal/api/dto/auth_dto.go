package dto

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/spec-kit/club-service/internal/domain"
)

// institutional email, e.g. alice@cs.iitr.ac.in or alice@iitr.ac.in
var institutionalEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@([A-Za-z0-9-]+\.)?iitr\.ac\.in$`)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email        string `json:"email"`
	EnrollmentNo string `json:"enrollment_no"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Branch       string `json:"branch"`
	Year         string `json:"year"`
	Password     string `json:"password"`
}

// Validate enforces the registration contract.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email,
			validation.Match(institutionalEmail).Error("must be an institutional email")),
		validation.Field(&r.EnrollmentNo, validation.Required, validation.Length(8, 8), is.Digit),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Phone, validation.Required, validation.Length(10, 10), is.Digit),
		validation.Field(&r.Branch, validation.Required, validation.By(validBranch)),
		validation.Field(&r.Year, validation.Required, validation.By(validYear)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// OTPRequest payload for requesting or resending a verification code.
type OTPRequest struct {
	Email string `json:"email"`
}

// Validate enforces the OTP request contract.
func (r OTPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// OTPVerifyRequest payload for validating a code.
type OTPVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate enforces the OTP verify contract.
func (r OTPVerifyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate enforces the login contract.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate enforces the password change contract.
func (r PasswordChangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidationDetails converts an ozzo validation error into the field-tagged
// details map used in error envelopes.
func ValidationDetails(err error) map[string]any {
	details := map[string]any{}
	if errs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range errs {
			details[field] = fieldErr.Error()
		}
	}
	return details
}

func validBranch(value interface{}) error {
	branch, _ := value.(string)
	if !domain.ValidBranch(domain.Branch(branch)) {
		return validation.NewError("validation_branch", "must be a valid branch")
	}
	return nil
}

func validYear(value interface{}) error {
	year, _ := value.(string)
	if !domain.ValidYear(domain.Year(year)) {
		return validation.NewError("validation_year", "must be a valid year")
	}
	return nil
}
