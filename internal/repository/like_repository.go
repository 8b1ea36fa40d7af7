package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/club-service/internal/domain"
)

// LikeRepository implements toggle semantics for club and event likes.
// Counters on the subject row are maintained in the same transaction as the
// like row itself.
type LikeRepository interface {
	Toggle(ctx context.Context, subject domain.LikeSubject, subjectID, accountID string) (liked bool, total int64, err error)
}

type likeRepository struct {
	pool *pgxpool.Pool
}

// NewLikeRepository instantiates repository.
func NewLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &likeRepository{pool: pool}
}

func (r *likeRepository) Toggle(ctx context.Context, subject domain.LikeSubject, subjectID, accountID string) (bool, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO likes (subject_type, subject_id, account_id)
        VALUES ($1,$2,$3)
        ON CONFLICT (subject_type, subject_id, account_id) DO NOTHING`
	cmd, err := tx.Exec(ctx, insert, subject, subjectID, accountID)
	if err != nil {
		return false, 0, err
	}

	liked := cmd.RowsAffected() == 1
	if !liked {
		const remove = `
            DELETE FROM likes WHERE subject_type=$1 AND subject_id=$2 AND account_id=$3`
		if _, err := tx.Exec(ctx, remove, subject, subjectID, accountID); err != nil {
			return false, 0, err
		}
	}

	delta := int64(-1)
	if liked {
		delta = 1
	}

	var counterQuery string
	switch subject {
	case domain.LikeSubjectClub:
		counterQuery = `UPDATE clubs SET likes = likes + $1 WHERE id=$2 RETURNING likes`
	case domain.LikeSubjectEvent:
		counterQuery = `UPDATE events SET likes = likes + $1 WHERE id=$2 RETURNING likes`
	}

	var total int64
	if err := tx.QueryRow(ctx, counterQuery, delta, subjectID).Scan(&total); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, total, nil
}
