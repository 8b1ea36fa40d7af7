package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/club-service/internal/domain"
)

// ClubConstraints maps unique-index names to the field they guard.
var ClubConstraints = map[string]string{
	"clubs_name_key": "name",
	"clubs_slug_key": "slug",
}

// ClubFilter captures listing parameters.
type ClubFilter struct {
	Category        *domain.ClubCategory
	RecruitmentOpen *bool
	Tag             *string
	SearchTerm      *string
	Limit           int
	Offset          int
}

// ClubRepository encapsulates club persistence.
type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) error
	Update(ctx context.Context, club *domain.Club) error
	GetByID(ctx context.Context, id string) (*domain.Club, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Club, error)
	ListWithFilter(ctx context.Context, filter ClubFilter) ([]domain.Club, error)
	AddMember(ctx context.Context, clubID, accountID string) error
	RemoveMember(ctx context.Context, clubID, accountID string) error
	AddAdmin(ctx context.Context, clubID, accountID string) error
	RemoveAdmin(ctx context.Context, clubID, accountID string) error
}

type clubRepository struct {
	pool *pgxpool.Pool
}

// NewClubRepository instantiates repository.
func NewClubRepository(pool *pgxpool.Pool) ClubRepository {
	return &clubRepository{pool: pool}
}

const clubColumns = `
        id, name, slug, description, category, logo_url, banner_url,
        admin_ids, member_ids, recruitment_open, tags, likes, created_at, updated_at`

func (r *clubRepository) Create(ctx context.Context, club *domain.Club) error {
	const query = `
        INSERT INTO clubs (name, slug, description, category, logo_url, banner_url, admin_ids, member_ids, recruitment_open, tags)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, likes, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		club.Name,
		club.Slug,
		club.Description,
		club.Category,
		club.LogoURL,
		club.BannerURL,
		club.AdminIDs,
		club.MemberIDs,
		club.RecruitmentOpen,
		club.Tags,
	).Scan(&club.ID, &club.Likes, &club.CreatedAt, &club.UpdatedAt)
}

func (r *clubRepository) Update(ctx context.Context, club *domain.Club) error {
	const query = `
        UPDATE clubs SET description=$1, category=$2, logo_url=$3, banner_url=$4,
            recruitment_open=$5, tags=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		club.Description,
		club.Category,
		club.LogoURL,
		club.BannerURL,
		club.RecruitmentOpen,
		club.Tags,
		club.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	const query = `SELECT` + clubColumns + ` FROM clubs WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *clubRepository) GetBySlug(ctx context.Context, slug string) (*domain.Club, error) {
	const query = `SELECT` + clubColumns + ` FROM clubs WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *clubRepository) ListWithFilter(ctx context.Context, filter ClubFilter) ([]domain.Club, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != nil {
		conditions = append(conditions, "category="+arg(*filter.Category))
	}
	if filter.RecruitmentOpen != nil {
		conditions = append(conditions, "recruitment_open="+arg(*filter.RecruitmentOpen))
	}
	if filter.Tag != nil {
		conditions = append(conditions, "tags @> ARRAY["+arg(*filter.Tag)+"]")
	}
	if filter.SearchTerm != nil {
		placeholder := arg("%" + strings.ToLower(*filter.SearchTerm) + "%")
		conditions = append(conditions, "(LOWER(name) LIKE "+placeholder+" OR LOWER(description) LIKE "+placeholder+")")
	}

	query := `SELECT` + clubColumns + ` FROM clubs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []domain.Club
	for rows.Next() {
		var club domain.Club
		if err := scanClub(rows, &club); err != nil {
			return nil, err
		}
		clubs = append(clubs, club)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) AddMember(ctx context.Context, clubID, accountID string) error {
	const query = `
        UPDATE clubs SET member_ids = array_append(member_ids, $2), updated_at=NOW()
        WHERE id=$1 AND NOT (member_ids @> ARRAY[$2])`
	cmd, err := r.pool.Exec(ctx, query, clubID, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clubRepository) RemoveMember(ctx context.Context, clubID, accountID string) error {
	const query = `
        UPDATE clubs SET member_ids = array_remove(member_ids, $2), updated_at=NOW()
        WHERE id=$1 AND member_ids @> ARRAY[$2]`
	cmd, err := r.pool.Exec(ctx, query, clubID, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clubRepository) AddAdmin(ctx context.Context, clubID, accountID string) error {
	const query = `
        UPDATE clubs SET admin_ids = array_append(admin_ids, $2), updated_at=NOW()
        WHERE id=$1 AND NOT (admin_ids @> ARRAY[$2])`
	cmd, err := r.pool.Exec(ctx, query, clubID, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clubRepository) RemoveAdmin(ctx context.Context, clubID, accountID string) error {
	const query = `
        UPDATE clubs SET admin_ids = array_remove(admin_ids, $2), updated_at=NOW()
        WHERE id=$1 AND admin_ids @> ARRAY[$2]`
	cmd, err := r.pool.Exec(ctx, query, clubID, accountID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clubRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Club, error) {
	var club domain.Club
	if err := scanClub(r.pool.QueryRow(ctx, query, arg), &club); err != nil {
		return nil, err
	}
	return &club, nil
}

func scanClub(row pgx.Row, club *domain.Club) error {
	return row.Scan(
		&club.ID,
		&club.Name,
		&club.Slug,
		&club.Description,
		&club.Category,
		&club.LogoURL,
		&club.BannerURL,
		&club.AdminIDs,
		&club.MemberIDs,
		&club.RecruitmentOpen,
		&club.Tags,
		&club.Likes,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
}
