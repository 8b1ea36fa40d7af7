package domain

import "time"

// ClubCategory enumerates broad club groupings used for filtering.
type ClubCategory string

const (
	ClubCategoryTechnical ClubCategory = "TECHNICAL"
	ClubCategoryCultural  ClubCategory = "CULTURAL"
	ClubCategorySports    ClubCategory = "SPORTS"
	ClubCategoryLiterary  ClubCategory = "LITERARY"
	ClubCategorySocial    ClubCategory = "SOCIAL"
	ClubCategoryOther     ClubCategory = "OTHER"
)

// Club is the aggregate for a campus club.
type Club struct {
	ID              string
	Name            string
	Slug            string
	Description     string
	Category        ClubCategory
	LogoURL         string
	BannerURL       string
	AdminIDs        []string
	MemberIDs       []string
	RecruitmentOpen bool
	Tags            []string
	Likes           int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin reports whether the account administers this club.
func (c *Club) IsAdmin(accountID string) bool {
	for _, id := range c.AdminIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// IsMember reports whether the account belongs to this club.
func (c *Club) IsMember(accountID string) bool {
	for _, id := range c.MemberIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// ValidClubCategory reports whether cat is a known category.
func ValidClubCategory(cat ClubCategory) bool {
	switch cat {
	case ClubCategoryTechnical, ClubCategoryCultural, ClubCategorySports,
		ClubCategoryLiterary, ClubCategorySocial, ClubCategoryOther:
		return true
	}
	return false
}
