package store

import (
	"context"
	"database/sql"

	"github.com/poseidon-capital/console/types"
)

// RatingRepository handles persistence for ratings.
type RatingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

const ratingColumns = `id, moodys_rating, sand_p_rating, fitch_rating, order_number`

func scanRating(row scanner) (types.Rating, error) {
	var rt types.Rating
	err := row.Scan(
		&rt.ID,
		&rt.MoodysRating,
		&rt.SandPRating,
		&rt.FitchRating,
		&rt.OrderNumber,
	)
	if err != nil {
		return types.Rating{}, mapError(err)
	}
	return rt, nil
}

func (r *RatingRepository) List(ctx context.Context) ([]types.Rating, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ratingColumns+` FROM rating ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRating)
}

func (r *RatingRepository) Get(ctx context.Context, id int) (types.Rating, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ratingColumns+` FROM rating WHERE id = $1`, id)
	return scanRating(row)
}

func (r *RatingRepository) Create(ctx context.Context, rt types.Rating) (types.Rating, error) {
	const query = `
		INSERT INTO rating (moodys_rating, sand_p_rating, fitch_rating, order_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query, rt.MoodysRating, rt.SandPRating, rt.FitchRating, rt.OrderNumber).Scan(&id)
	if err != nil {
		return types.Rating{}, mapError(err)
	}
	return r.Get(ctx, id)
}

func (r *RatingRepository) Update(ctx context.Context, id int, rt types.Rating) (types.Rating, error) {
	const query = `
		UPDATE rating
		SET moodys_rating = $1,
			sand_p_rating = $2,
			fitch_rating = $3,
			order_number = $4
		WHERE id = $5`
	err := rowsAffected(r.db.ExecContext(ctx, query, rt.MoodysRating, rt.SandPRating, rt.FitchRating, rt.OrderNumber, id))
	if err != nil {
		return types.Rating{}, err
	}
	return r.Get(ctx, id)
}

func (r *RatingRepository) Delete(ctx context.Context, id int) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM rating WHERE id = $1`, id))
}
