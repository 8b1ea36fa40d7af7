package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/events"
	"github.com/spec-kit/club-service/internal/repository"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// ClubService coordinates club lifecycle and membership.
type ClubService struct {
	clubs      repository.ClubRepository
	likes      repository.LikeRepository
	dispatcher events.Dispatcher
}

// ClubDependencies bundles repositories for club service.
type ClubDependencies struct {
	ClubRepo   repository.ClubRepository
	LikeRepo   repository.LikeRepository
	Dispatcher events.Dispatcher
}

// ClubCreateInput describes club creation payload.
type ClubCreateInput struct {
	Name            string
	Description     string
	Category        domain.ClubCategory
	LogoURL         string
	BannerURL       string
	AdminIDs        []string
	RecruitmentOpen bool
	Tags            []string
}

// ClubUpdateInput describes the mutable descriptive fields. Nil pointers
// leave a field untouched.
type ClubUpdateInput struct {
	Description     *string
	Category        *domain.ClubCategory
	LogoURL         *string
	BannerURL       *string
	RecruitmentOpen *bool
	Tags            []string
}

// ClubListInput describes listing filters.
type ClubListInput struct {
	Category        *domain.ClubCategory
	RecruitmentOpen *bool
	Tag             *string
	SearchTerm      *string
	Page            int
	PageSize        int
}

// NewClubService constructs the service.
func NewClubService(deps ClubDependencies) *ClubService {
	return &ClubService{
		clubs:      deps.ClubRepo,
		likes:      deps.LikeRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateClub registers a club. The creator becomes an admin when no admin
// list is supplied.
func (s *ClubService) CreateClub(ctx context.Context, creatorID string, input ClubCreateInput) (*domain.Club, error) {
	admins := input.AdminIDs
	if len(admins) == 0 {
		admins = []string{creatorID}
	}

	club := &domain.Club{
		Name:            strings.TrimSpace(input.Name),
		Slug:            Slugify(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Category:        input.Category,
		LogoURL:         input.LogoURL,
		BannerURL:       input.BannerURL,
		AdminIDs:        admins,
		MemberIDs:       []string{},
		RecruitmentOpen: input.RecruitmentOpen,
		Tags:            input.Tags,
	}
	if club.Category == "" {
		club.Category = domain.ClubCategoryOther
	}

	if err := s.clubs.Create(ctx, club); err != nil {
		if field := apperrors.DuplicateKeyField(err, repository.ClubConstraints); field != "" {
			return nil, apperrors.NewDuplicateKey(field)
		}
		return nil, apperrors.MapError(err)
	}
	return club, nil
}

// ListClubs returns clubs matching the filter, paginated.
func (s *ClubService) ListClubs(ctx context.Context, input ClubListInput) ([]domain.Club, error) {
	limit, offset := pageToLimitOffset(input.Page, input.PageSize)
	return s.clubs.ListWithFilter(ctx, repository.ClubFilter{
		Category:        input.Category,
		RecruitmentOpen: input.RecruitmentOpen,
		Tag:             input.Tag,
		SearchTerm:      input.SearchTerm,
		Limit:           limit,
		Offset:          offset,
	})
}

// GetClub fetches a club by slug.
func (s *ClubService) GetClub(ctx context.Context, slug string) (*domain.Club, error) {
	club, err := s.clubs.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("club", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return club, nil
}

// UpdateClub applies descriptive changes. Caller must administer the club or
// be a site admin.
func (s *ClubService) UpdateClub(ctx context.Context, caller *domain.Account, slug string, input ClubUpdateInput) (*domain.Club, error) {
	club, err := s.GetClub(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !canManageClub(caller, club) {
		return nil, apperrors.NewForbidden("club admin required")
	}

	if input.Description != nil {
		club.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		club.Category = *input.Category
	}
	if input.LogoURL != nil {
		club.LogoURL = *input.LogoURL
	}
	if input.BannerURL != nil {
		club.BannerURL = *input.BannerURL
	}
	if input.RecruitmentOpen != nil {
		club.RecruitmentOpen = *input.RecruitmentOpen
	}
	if input.Tags != nil {
		club.Tags = input.Tags
	}

	if err := s.clubs.Update(ctx, club); err != nil {
		return nil, apperrors.MapError(err)
	}
	return club, nil
}

// Join adds the caller to the club's member list.
func (s *ClubService) Join(ctx context.Context, caller *domain.Account, slug string) (*domain.Club, error) {
	club, err := s.GetClub(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !club.RecruitmentOpen {
		return nil, apperrors.NewConflict("recruitment closed", nil)
	}
	if club.IsMember(caller.ID) {
		return nil, apperrors.NewConflict("already a member", nil)
	}

	if err := s.clubs.AddMember(ctx, club.ID, caller.ID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewConflict("already a member", nil)
		}
		return nil, apperrors.MapError(err)
	}
	club.MemberIDs = append(club.MemberIDs, caller.ID)

	s.publish(ctx, events.Event{
		Type:      events.EventMemberJoined,
		AccountID: caller.ID,
		Payload:   events.MembershipPayload{ClubID: club.ID, ClubName: club.Name},
	})
	return club, nil
}

// Leave removes the caller from the club's member list.
func (s *ClubService) Leave(ctx context.Context, caller *domain.Account, slug string) error {
	club, err := s.GetClub(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.clubs.RemoveMember(ctx, club.ID, caller.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("membership", nil)
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventMemberLeft,
		AccountID: caller.ID,
		Payload:   events.MembershipPayload{ClubID: club.ID, ClubName: club.Name},
	})
	return nil
}

// ToggleLike flips the caller's like on the club and returns the new state.
func (s *ClubService) ToggleLike(ctx context.Context, callerID, slug string) (bool, int64, error) {
	club, err := s.GetClub(ctx, slug)
	if err != nil {
		return false, 0, err
	}
	liked, total, err := s.likes.Toggle(ctx, domain.LikeSubjectClub, club.ID, callerID)
	if err != nil {
		return false, 0, apperrors.MapError(err)
	}
	return liked, total, nil
}

// SetAdmin adds or removes a club admin. Site admin only at the transport
// layer.
func (s *ClubService) SetAdmin(ctx context.Context, slug, accountID string, grant bool) (*domain.Club, error) {
	club, err := s.GetClub(ctx, slug)
	if err != nil {
		return nil, err
	}

	if grant {
		err = s.clubs.AddAdmin(ctx, club.ID, accountID)
	} else {
		if len(club.AdminIDs) == 1 && club.AdminIDs[0] == accountID {
			return nil, apperrors.NewConflict("cannot remove the last club admin", nil)
		}
		err = s.clubs.RemoveAdmin(ctx, club.ID, accountID)
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewConflict("admin list unchanged", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return s.clubs.GetByID(ctx, club.ID)
}

func (s *ClubService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func canManageClub(caller *domain.Account, club *domain.Club) bool {
	if caller == nil {
		return false
	}
	if caller.Role == domain.RoleSiteAdmin {
		return true
	}
	return club.IsAdmin(caller.ID)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a club name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func pageToLimitOffset(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
