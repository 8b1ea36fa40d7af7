package domain

import "time"

// Role enumerates account privilege levels.
type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleClubAdmin Role = "CLUB_ADMIN"
	RoleSiteAdmin Role = "SITE_ADMIN"
)

// Branch enumerates academic branches.
type Branch string

const (
	BranchCSE   Branch = "CSE"
	BranchECE   Branch = "ECE"
	BranchEEE   Branch = "EEE"
	BranchME    Branch = "ME"
	BranchCE    Branch = "CE"
	BranchCHE   Branch = "CHE"
	BranchBT    Branch = "BT"
	BranchMME   Branch = "MME"
	BranchEP    Branch = "EP"
	BranchArch  Branch = "ARCH"
	BranchOther Branch = "OTHER"
)

// Year enumerates study-year labels.
type Year string

const (
	YearFirst  Year = "1"
	YearSecond Year = "2"
	YearThird  Year = "3"
	YearFourth Year = "4"
	YearFifth  Year = "5"
	YearPG     Year = "PG"
	YearPhD    Year = "PHD"
)

// Branches lists every valid academic branch.
var Branches = []Branch{
	BranchCSE, BranchECE, BranchEEE, BranchME, BranchCE, BranchCHE,
	BranchBT, BranchMME, BranchEP, BranchArch, BranchOther,
}

// Years lists every valid year label.
var Years = []Year{YearFirst, YearSecond, YearThird, YearFourth, YearFifth, YearPG, YearPhD}

// Account is the domain model for a registered campus member.
//
// OTP and OTPExpiresAt hold the single currently valid verification code;
// issuing a new code overwrites both, and a successful validation clears them
// in the same update that flips IsEmailVerified.
type Account struct {
	ID              string
	Email           string
	EnrollmentNo    string
	Name            string
	Phone           string
	Branch          Branch
	Year            Year
	Role            Role
	PasswordHash    string
	IsEmailVerified bool
	OTP             *string
	OTPExpiresAt    *time.Time
	IsActive        bool
	Bio             string
	AvatarURL       string
	Skills          []string
	Interests       []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidBranch reports whether b is a known branch label.
func ValidBranch(b Branch) bool {
	for _, known := range Branches {
		if known == b {
			return true
		}
	}
	return false
}

// ValidYear reports whether y is a known year label.
func ValidYear(y Year) bool {
	for _, known := range Years {
		if known == y {
			return true
		}
	}
	return false
}
