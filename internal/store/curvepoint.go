package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/poseidon-capital/console/types"
)

// CurvePointRepository handles persistence for curve points.
type CurvePointRepository struct {
	db *sql.DB
}

func NewCurvePointRepository(db *sql.DB) *CurvePointRepository {
	return &CurvePointRepository{db: db}
}

const curvePointColumns = `id, curve_id, as_of_date, term, curve_value, creation_date`

func scanCurvePoint(row scanner) (types.CurvePoint, error) {
	var c types.CurvePoint
	err := row.Scan(
		&c.ID,
		&c.CurveID,
		&c.AsOfDate,
		&c.Term,
		&c.Value,
		&c.CreationDate,
	)
	if err != nil {
		return types.CurvePoint{}, mapError(err)
	}
	return c, nil
}

func (r *CurvePointRepository) List(ctx context.Context) ([]types.CurvePoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+curvePointColumns+` FROM curve_point ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCurvePoint)
}

func (r *CurvePointRepository) Get(ctx context.Context, id int) (types.CurvePoint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+curvePointColumns+` FROM curve_point WHERE id = $1`, id)
	return scanCurvePoint(row)
}

func (r *CurvePointRepository) Create(ctx context.Context, c types.CurvePoint) (types.CurvePoint, error) {
	const query = `
		INSERT INTO curve_point (curve_id, as_of_date, term, curve_value, creation_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query, c.CurveID, c.AsOfDate, c.Term, c.Value, time.Now().UTC()).Scan(&id)
	if err != nil {
		return types.CurvePoint{}, mapError(err)
	}
	return r.Get(ctx, id)
}

func (r *CurvePointRepository) Update(ctx context.Context, id int, c types.CurvePoint) (types.CurvePoint, error) {
	const query = `
		UPDATE curve_point
		SET curve_id = $1,
			as_of_date = $2,
			term = $3,
			curve_value = $4
		WHERE id = $5`
	if err := rowsAffected(r.db.ExecContext(ctx, query, c.CurveID, c.AsOfDate, c.Term, c.Value, id)); err != nil {
		return types.CurvePoint{}, err
	}
	return r.Get(ctx, id)
}

func (r *CurvePointRepository) Delete(ctx context.Context, id int) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM curve_point WHERE id = $1`, id))
}
