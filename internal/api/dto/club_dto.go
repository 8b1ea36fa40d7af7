package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/spec-kit/club-service/internal/domain"
)

// CreateClubRequest payload.
type CreateClubRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	LogoURL         string   `json:"logo_url"`
	BannerURL       string   `json:"banner_url"`
	AdminIDs        []string `json:"admin_ids"`
	RecruitmentOpen bool     `json:"recruitment_open"`
	Tags            []string `json:"tags"`
}

// Validate enforces the club creation contract.
func (r CreateClubRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Category, validation.By(validClubCategory)),
		validation.Field(&r.LogoURL, validation.When(r.LogoURL != "", is.URL)),
		validation.Field(&r.BannerURL, validation.When(r.BannerURL != "", is.URL)),
	)
}

// UpdateClubRequest payload for descriptive changes.
type UpdateClubRequest struct {
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	LogoURL         *string  `json:"logo_url"`
	BannerURL       *string  `json:"banner_url"`
	RecruitmentOpen *bool    `json:"recruitment_open"`
	Tags            []string `json:"tags"`
}

// Validate enforces the club update contract.
func (r UpdateClubRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Category, validation.When(r.Category != nil, validation.By(validClubCategoryPtr))),
		validation.Field(&r.LogoURL, validation.NilOrNotEmpty, is.URL),
		validation.Field(&r.BannerURL, validation.NilOrNotEmpty, is.URL),
	)
}

// ClubAdminRequest grants or revokes a club admin.
type ClubAdminRequest struct {
	AccountID string `json:"account_id"`
	Grant     bool   `json:"grant"`
}

// Validate enforces the admin change contract.
func (r ClubAdminRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccountID, validation.Required, is.UUID),
	)
}

// ClubResponse is the public shape of a club.
type ClubResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	LogoURL         string    `json:"logo_url,omitempty"`
	BannerURL       string    `json:"banner_url,omitempty"`
	AdminIDs        []string  `json:"admin_ids"`
	MemberCount     int       `json:"member_count"`
	RecruitmentOpen bool      `json:"recruitment_open"`
	Tags            []string  `json:"tags,omitempty"`
	Likes           int64     `json:"likes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewClubResponse maps a domain club to its public shape.
func NewClubResponse(club *domain.Club) ClubResponse {
	return ClubResponse{
		ID:              club.ID,
		Name:            club.Name,
		Slug:            club.Slug,
		Description:     club.Description,
		Category:        string(club.Category),
		LogoURL:         club.LogoURL,
		BannerURL:       club.BannerURL,
		AdminIDs:        club.AdminIDs,
		MemberCount:     len(club.MemberIDs),
		RecruitmentOpen: club.RecruitmentOpen,
		Tags:            club.Tags,
		Likes:           club.Likes,
		CreatedAt:       club.CreatedAt,
		UpdatedAt:       club.UpdatedAt,
	}
}

// LikeResponse reports the outcome of a like toggle.
type LikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

func validClubCategory(value interface{}) error {
	category, _ := value.(string)
	if category == "" {
		return nil
	}
	if !domain.ValidClubCategory(domain.ClubCategory(category)) {
		return validation.NewError("validation_category", "must be a valid category")
	}
	return nil
}

func validClubCategoryPtr(value interface{}) error {
	category, ok := value.(*string)
	if !ok || category == nil {
		return nil
	}
	return validClubCategory(*category)
}
