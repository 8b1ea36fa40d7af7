package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/repository"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// stubAccounts serves only GetByID; the middleware touches nothing else.
type stubAccounts struct {
	accounts map[string]*domain.Account
}

func (s *stubAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (s *stubAccounts) Create(context.Context, *domain.Account) error { return nil }

func (s *stubAccounts) GetByEmail(context.Context, string) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubAccounts) GetByEmailWithSecret(context.Context, string) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubAccounts) UpdateProfile(context.Context, string, repository.ProfilePatch) (*domain.Account, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubAccounts) UpdatePassword(context.Context, string, string) error { return nil }

func (s *stubAccounts) SetOTP(context.Context, string, string, time.Time) error { return nil }

func (s *stubAccounts) ConsumeOTP(context.Context, string, string, time.Time) (bool, error) {
	return false, nil
}

func (s *stubAccounts) SetActive(context.Context, string, bool) error { return nil }

func (s *stubAccounts) SetRole(context.Context, string, domain.Role) error { return nil }

func newTestApp(accounts *stubAccounts, tokens *TokenManager, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	middleware := NewAuthMiddleware(tokens, accounts)
	chain := append([]fiber.Handler{middleware.Handle}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"id": principal.Account.ID})
	})
	app.Get("/protected", chain...)
	return app
}

func TestMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	tokens := NewTokenManager("secret", 60)
	app := newTestApp(&stubAccounts{accounts: map[string]*domain.Account{}}, tokens)

	request := httptest.NewRequest("GET", "/protected", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 401, response.StatusCode)

	request = httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Token abc")
	response, err = app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 401, response.StatusCode)

	request = httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer not.a.token")
	response, err = app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 401, response.StatusCode)
}

func TestMiddlewareUnknownAccountIsUnauthenticated(t *testing.T) {
	tokens := NewTokenManager("secret", 60)
	app := newTestApp(&stubAccounts{accounts: map[string]*domain.Account{}}, tokens)

	token, _, err := tokens.GenerateToken("ghost", domain.RoleMember)
	require.NoError(t, err)

	request := httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 401, response.StatusCode)
}

func TestMiddlewareDeactivatedAccountIsForbidden(t *testing.T) {
	tokens := NewTokenManager("secret", 60)
	accounts := &stubAccounts{accounts: map[string]*domain.Account{
		"acc-1": {ID: "acc-1", Role: domain.RoleMember, IsActive: false},
	}}
	app := newTestApp(accounts, tokens)

	token, _, err := tokens.GenerateToken("acc-1", domain.RoleMember)
	require.NoError(t, err)

	request := httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 403, response.StatusCode, "disabled accounts are forbidden, not unauthenticated")
}

func TestMiddlewareLoadsPrincipal(t *testing.T) {
	tokens := NewTokenManager("secret", 60)
	accounts := &stubAccounts{accounts: map[string]*domain.Account{
		"acc-1": {ID: "acc-1", Role: domain.RoleMember, IsActive: true, IsEmailVerified: true},
	}}
	app := newTestApp(accounts, tokens)

	token, _, err := tokens.GenerateToken("acc-1", domain.RoleMember)
	require.NoError(t, err)

	request := httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
}

func TestRequireVerifiedEmailGatesUnverified(t *testing.T) {
	tokens := NewTokenManager("secret", 60)
	accounts := &stubAccounts{accounts: map[string]*domain.Account{
		"acc-1": {ID: "acc-1", Role: domain.RoleMember, IsActive: true, IsEmailVerified: false},
	}}
	app := newTestApp(accounts, tokens, RequireVerifiedEmail())

	token, _, err := tokens.GenerateToken("acc-1", domain.RoleMember)
	require.NoError(t, err)

	request := httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 403, response.StatusCode)
}

func TestRequireRoleGatesByRole(t *testing.T) {
	tokens := NewTokenManager("secret", 60)
	accounts := &stubAccounts{accounts: map[string]*domain.Account{
		"member": {ID: "member", Role: domain.RoleMember, IsActive: true, IsEmailVerified: true},
		"admin":  {ID: "admin", Role: domain.RoleSiteAdmin, IsActive: true, IsEmailVerified: true},
	}}
	app := newTestApp(accounts, tokens, RequireRole(domain.RoleSiteAdmin))

	memberToken, _, err := tokens.GenerateToken("member", domain.RoleMember)
	require.NoError(t, err)
	adminToken, _, err := tokens.GenerateToken("admin", domain.RoleSiteAdmin)
	require.NoError(t, err)

	request := httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+memberToken)
	response, err := app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 403, response.StatusCode)

	request = httptest.NewRequest("GET", "/protected", nil)
	request.Header.Set("Authorization", "Bearer "+adminToken)
	response, err = app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
}
