package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type reviewRepoPG struct{ pool *pgxpool.Pool }

func NewReviewRepoPG(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepoPG{pool: pool}
}

const reviewCols = `r.id, r.doctor_id, r.patient_id, u.full_name, r.rating, r.comment, r.created_at`

const reviewJoins = `
	FROM review r
	JOIN patient p ON p.id = r.patient_id
	JOIN app_user u ON u.id = p.user_id`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.DoctorID, &r.PatientID, &r.PatientName, &r.Rating, &r.Comment, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &r, err
}

func (r *reviewRepoPG) Create(ctx context.Context, rev *Review) error {
	rev.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO review (id, doctor_id, patient_id, rating, comment)
		VALUES ($1,$2,$3,$4,$5)`,
		rev.ID, rev.DoctorID, rev.PatientID, rev.Rating, rev.Comment)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyReviewed
	}
	return err
}

func (r *reviewRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM review WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+reviewCols+reviewJoins+`
		WHERE r.doctor_id = $1
		ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, total, rows.Err()
}

func (r *reviewRepoPG) AverageForDoctor(ctx context.Context, doctorID uuid.UUID) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0) FROM review WHERE doctor_id = $1`, doctorID).Scan(&avg)
	return avg, err
}

func (r *reviewRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM review WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
