package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/club-service/internal/domain"
)

// EventFilter captures listing parameters.
type EventFilter struct {
	ClubID       *string
	StartsAfter  *time.Time
	StartsBefore *time.Time
	SearchTerm   *string
	Limit        int
	Offset       int
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `
        id, club_id, title, description, venue, starts_at, ends_at,
        registration_url, likes, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (club_id, title, description, venue, starts_at, ends_at, registration_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, likes, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.ClubID,
		event.Title,
		event.Description,
		event.Venue,
		event.StartsAt,
		event.EndsAt,
		event.RegistrationURL,
	).Scan(&event.ID, &event.Likes, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, venue=$3, starts_at=$4, ends_at=$5,
            registration_url=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Venue,
		event.StartsAt,
		event.EndsAt,
		event.RegistrationURL,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM events WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `SELECT` + eventColumns + ` FROM events WHERE id=$1`
	var event domain.Event
	if err := scanEvent(r.pool.QueryRow(ctx, query, id), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ClubID != nil {
		conditions = append(conditions, "club_id="+arg(*filter.ClubID))
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, "starts_at >= "+arg(*filter.StartsAfter))
	}
	if filter.StartsBefore != nil {
		conditions = append(conditions, "starts_at <= "+arg(*filter.StartsBefore))
	}
	if filter.SearchTerm != nil {
		placeholder := arg("%" + strings.ToLower(*filter.SearchTerm) + "%")
		conditions = append(conditions, "(LOWER(title) LIKE "+placeholder+" OR LOWER(description) LIKE "+placeholder+")")
	}

	query := `SELECT` + eventColumns + ` FROM events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY starts_at ASC"
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

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row, event *domain.Event) error {
	return row.Scan(
		&event.ID,
		&event.ClubID,
		&event.Title,
		&event.Description,
		&event.Venue,
		&event.StartsAt,
		&event.EndsAt,
		&event.RegistrationURL,
		&event.Likes,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}
