package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/club-service/internal/domain"
)

// AccountConstraints maps unique-index names to the field they guard.
var AccountConstraints = map[string]string{
	"accounts_email_key":         "email",
	"accounts_enrollment_no_key": "enrollment_no",
}

// ProfilePatch carries the self-editable subset of account fields. Nil
// pointers leave the stored value untouched. Email, enrollment number,
// password and the verification/active flags are deliberately absent;
// those change only through dedicated privileged operations.
type ProfilePatch struct {
	Name      *string
	Phone     *string
	Bio       *string
	AvatarURL *string
	Skills    []string
	Interests []string
}

// AccountRepository defines persistence access for accounts.
//
// Read methods omit the password hash; GetByEmailWithSecret exists solely for
// the login comparison step.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByEmailWithSecret(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, id, code string, now time.Time) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetRole(ctx context.Context, id string, role domain.Role) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountPublicColumns = `
        id, email, enrollment_no, name, phone, branch, year, role,
        is_email_verified, is_active, bio, avatar_url, skills, interests,
        created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (email, enrollment_no, name, phone, branch, year, role, password_hash, bio, avatar_url, skills, interests)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, is_email_verified, is_active, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Email,
		account.EnrollmentNo,
		account.Name,
		account.Phone,
		account.Branch,
		account.Year,
		account.Role,
		account.PasswordHash,
		account.Bio,
		account.AvatarURL,
		account.Skills,
		account.Interests,
	).Scan(&account.ID, &account.IsEmailVerified, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT` + accountPublicColumns + `
        FROM accounts WHERE id=$1`
	return r.scanPublic(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT` + accountPublicColumns + `
        FROM accounts WHERE email=$1`
	return r.scanPublic(r.pool.QueryRow(ctx, query, email))
}

func (r *accountRepository) GetByEmailWithSecret(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT` + accountPublicColumns + `, password_hash, otp, otp_expires_at
        FROM accounts WHERE email=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Email,
		&account.EnrollmentNo,
		&account.Name,
		&account.Phone,
		&account.Branch,
		&account.Year,
		&account.Role,
		&account.IsEmailVerified,
		&account.IsActive,
		&account.Bio,
		&account.AvatarURL,
		&account.Skills,
		&account.Interests,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.PasswordHash,
		&account.OTP,
		&account.OTPExpiresAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Account, error) {
	const query = `
        UPDATE accounts SET
            name       = COALESCE($1, name),
            phone      = COALESCE($2, phone),
            bio        = COALESCE($3, bio),
            avatar_url = COALESCE($4, avatar_url),
            skills     = COALESCE($5, skills),
            interests  = COALESCE($6, interests),
            updated_at = NOW()
        WHERE id=$7
        RETURNING` + accountPublicColumns

	return r.scanPublic(r.pool.QueryRow(ctx, query,
		patch.Name,
		patch.Phone,
		patch.Bio,
		patch.AvatarURL,
		patch.Skills,
		patch.Interests,
		id,
	))
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE accounts SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetOTP overwrites any pending code, so only the latest issued code is ever
// valid.
func (r *accountRepository) SetOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	const query = `
        UPDATE accounts SET otp=$1, otp_expires_at=$2, updated_at=NOW()
        WHERE id=$3 AND is_email_verified=false`
	cmd, err := r.pool.Exec(ctx, query, code, expiresAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ConsumeOTP flips the verified flag and clears the code in a single atomic
// update. The expiry bound is strict: a code presented at exactly its expiry
// instant is rejected.
func (r *accountRepository) ConsumeOTP(ctx context.Context, id, code string, now time.Time) (bool, error) {
	const query = `
        UPDATE accounts SET is_email_verified=true, otp=NULL, otp_expires_at=NULL, updated_at=NOW()
        WHERE id=$1 AND otp=$2 AND otp_expires_at > $3 AND is_email_verified=false`
	cmd, err := r.pool.Exec(ctx, query, id, code, now)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *accountRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE accounts SET is_active=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	const query = `UPDATE accounts SET role=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) scanPublic(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.EnrollmentNo,
		&account.Name,
		&account.Phone,
		&account.Branch,
		&account.Year,
		&account.Role,
		&account.IsEmailVerified,
		&account.IsActive,
		&account.Bio,
		&account.AvatarURL,
		&account.Skills,
		&account.Interests,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
