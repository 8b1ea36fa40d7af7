package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/events"
	"github.com/spec-kit/club-service/internal/repository"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeAccountRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[string]*domain.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == account.Email {
			return uniqueViolation("accounts_email_key")
		}
		if existing.EnrollmentNo == account.EnrollmentNo {
			return uniqueViolation("accounts_enrollment_no_key")
		}
	}
	r.seq++
	account.ID = fmt.Sprintf("acc-%d", r.seq)
	account.IsEmailVerified = false
	account.IsActive = true
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := *account
	r.byID[account.ID] = &stored
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return publicCopy(account), nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.byID {
		if account.Email == email {
			return publicCopy(account), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) GetByEmailWithSecret(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.byID {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) UpdateProfile(_ context.Context, id string, patch repository.ProfilePatch) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.Phone != nil {
		account.Phone = *patch.Phone
	}
	if patch.Bio != nil {
		account.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		account.AvatarURL = *patch.AvatarURL
	}
	if patch.Skills != nil {
		account.Skills = patch.Skills
	}
	if patch.Interests != nil {
		account.Interests = patch.Interests
	}
	account.UpdatedAt = time.Now()
	return publicCopy(account), nil
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.PasswordHash = passwordHash
	return nil
}

func (r *fakeAccountRepo) SetOTP(_ context.Context, id, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok || account.IsEmailVerified {
		return pgx.ErrNoRows
	}
	codeCopy := code
	expiryCopy := expiresAt
	account.OTP = &codeCopy
	account.OTPExpiresAt = &expiryCopy
	return nil
}

func (r *fakeAccountRepo) ConsumeOTP(_ context.Context, id, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok || account.IsEmailVerified {
		return false, nil
	}
	if account.OTP == nil || account.OTPExpiresAt == nil {
		return false, nil
	}
	if *account.OTP != code || !account.OTPExpiresAt.After(now) {
		return false, nil
	}
	account.IsEmailVerified = true
	account.OTP = nil
	account.OTPExpiresAt = nil
	return true, nil
}

func (r *fakeAccountRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.IsActive = active
	return nil
}

func (r *fakeAccountRepo) SetRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	account.Role = role
	return nil
}

func (r *fakeAccountRepo) stored(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

func publicCopy(account *domain.Account) *domain.Account {
	copied := *account
	copied.PasswordHash = ""
	copied.OTP = nil
	copied.OTPExpiresAt = nil
	return &copied
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failErr error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) lastBody() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Body
}

type fakeLimiter struct {
	allowed bool
	calls   int
}

func (l *fakeLimiter) Allow(context.Context, string) (bool, error) {
	l.calls++
	return l.allowed, nil
}

type captureDispatcher struct {
	mu        sync.Mutex
	published []events.Event
	handlers  map[events.EventType][]events.EventHandler
}

func newCaptureDispatcher() *captureDispatcher {
	return &captureDispatcher{handlers: map[events.EventType][]events.EventHandler{}}
}

func (d *captureDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.published = append(d.published, event)
	handlers := append([]events.EventHandler{}, d.handlers[event.Type]...)
	d.mu.Unlock()
	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

func (d *captureDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

func (d *captureDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type fakeClubRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Club
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{byID: map[string]*domain.Club{}}
}

func (r *fakeClubRepo) Create(_ context.Context, club *domain.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == club.Name {
			return uniqueViolation("clubs_name_key")
		}
		if existing.Slug == club.Slug {
			return uniqueViolation("clubs_slug_key")
		}
	}
	r.seq++
	club.ID = fmt.Sprintf("club-%d", r.seq)
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	stored := cloneClub(club)
	r.byID[club.ID] = stored
	return nil
}

func (r *fakeClubRepo) Update(_ context.Context, club *domain.Club) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[club.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Description = club.Description
	existing.Category = club.Category
	existing.LogoURL = club.LogoURL
	existing.BannerURL = club.BannerURL
	existing.RecruitmentOpen = club.RecruitmentOpen
	existing.Tags = club.Tags
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *fakeClubRepo) GetByID(_ context.Context, id string) (*domain.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	club, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneClub(club), nil
}

func (r *fakeClubRepo) GetBySlug(_ context.Context, slug string) (*domain.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, club := range r.byID {
		if club.Slug == slug {
			return cloneClub(club), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeClubRepo) ListWithFilter(_ context.Context, filter repository.ClubFilter) ([]domain.Club, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var clubs []domain.Club
	for _, club := range r.byID {
		if filter.Category != nil && club.Category != *filter.Category {
			continue
		}
		if filter.RecruitmentOpen != nil && club.RecruitmentOpen != *filter.RecruitmentOpen {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(club.Name), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		clubs = append(clubs, *cloneClub(club))
	}
	return clubs, nil
}

func (r *fakeClubRepo) AddMember(_ context.Context, clubID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	club, ok := r.byID[clubID]
	if !ok || club.IsMember(accountID) {
		return pgx.ErrNoRows
	}
	club.MemberIDs = append(club.MemberIDs, accountID)
	return nil
}

func (r *fakeClubRepo) RemoveMember(_ context.Context, clubID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	club, ok := r.byID[clubID]
	if !ok || !club.IsMember(accountID) {
		return pgx.ErrNoRows
	}
	club.MemberIDs = removeString(club.MemberIDs, accountID)
	return nil
}

func (r *fakeClubRepo) AddAdmin(_ context.Context, clubID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	club, ok := r.byID[clubID]
	if !ok || club.IsAdmin(accountID) {
		return pgx.ErrNoRows
	}
	club.AdminIDs = append(club.AdminIDs, accountID)
	return nil
}

func (r *fakeClubRepo) RemoveAdmin(_ context.Context, clubID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	club, ok := r.byID[clubID]
	if !ok || !club.IsAdmin(accountID) {
		return pgx.ErrNoRows
	}
	club.AdminIDs = removeString(club.AdminIDs, accountID)
	return nil
}

func cloneClub(club *domain.Club) *domain.Club {
	copied := *club
	copied.AdminIDs = append([]string{}, club.AdminIDs...)
	copied.MemberIDs = append([]string{}, club.MemberIDs...)
	copied.Tags = append([]string{}, club.Tags...)
	return &copied
}

func removeString(list []string, target string) []string {
	filtered := list[:0]
	for _, item := range list {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

type fakeEventRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: map[string]*domain.Event{}}
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	event.ID = fmt.Sprintf("event-%d", r.seq)
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	r.byID[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *event
	r.byID[event.ID] = &stored
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) ListWithFilter(_ context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.Event
	for _, event := range r.byID {
		if filter.ClubID != nil && event.ClubID != *filter.ClubID {
			continue
		}
		if filter.StartsAfter != nil && !event.StartsAt.After(*filter.StartsAfter) {
			continue
		}
		if filter.StartsBefore != nil && !event.StartsAt.Before(*filter.StartsBefore) {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		matched = append(matched, *event)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartsAt.Before(matched[j].StartsAt) })
	return matched, nil
}

type fakeCommentRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byID: map[string]*domain.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	stored := *comment
	r.byID[comment.ID] = &stored
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListByEvent(_ context.Context, eventID string, limit, offset int) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var comments []domain.Comment
	for _, comment := range r.byID {
		if comment.EventID == eventID {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

type fakeLikeRepo struct {
	mu     sync.Mutex
	liked  map[string]map[string]bool
	totals map[string]int64
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{liked: map[string]map[string]bool{}, totals: map[string]int64{}}
}

func (r *fakeLikeRepo) Toggle(_ context.Context, subject domain.LikeSubject, subjectID, accountID string) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := string(subject) + ":" + subjectID
	if r.liked[key] == nil {
		r.liked[key] = map[string]bool{}
	}
	if r.liked[key][accountID] {
		delete(r.liked[key], accountID)
		r.totals[key]--
		return false, r.totals[key], nil
	}
	r.liked[key][accountID] = true
	r.totals[key]++
	return true, r.totals[key], nil
}
