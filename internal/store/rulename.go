package store

import (
	"context"
	"database/sql"

	"github.com/poseidon-capital/console/types"
)

// RuleNameRepository handles persistence for rule names.
type RuleNameRepository struct {
	db *sql.DB
}

func NewRuleNameRepository(db *sql.DB) *RuleNameRepository {
	return &RuleNameRepository{db: db}
}

const ruleNameColumns = `id, name, description, json, template, sql_str, sql_part`

func scanRuleName(row scanner) (types.RuleName, error) {
	var rn types.RuleName
	err := row.Scan(
		&rn.ID,
		&rn.Name,
		&rn.Description,
		&rn.JSON,
		&rn.Template,
		&rn.SQLStr,
		&rn.SQLPart,
	)
	if err != nil {
		return types.RuleName{}, mapError(err)
	}
	return rn, nil
}

func (r *RuleNameRepository) List(ctx context.Context) ([]types.RuleName, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ruleNameColumns+` FROM rule_name ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRuleName)
}

func (r *RuleNameRepository) Get(ctx context.Context, id int) (types.RuleName, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ruleNameColumns+` FROM rule_name WHERE id = $1`, id)
	return scanRuleName(row)
}

func (r *RuleNameRepository) Create(ctx context.Context, rn types.RuleName) (types.RuleName, error) {
	const query = `
		INSERT INTO rule_name (name, description, json, template, sql_str, sql_part)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id int
	err := r.db.QueryRowContext(ctx, query, rn.Name, rn.Description, rn.JSON, rn.Template, rn.SQLStr, rn.SQLPart).Scan(&id)
	if err != nil {
		return types.RuleName{}, mapError(err)
	}
	return r.Get(ctx, id)
}

func (r *RuleNameRepository) Update(ctx context.Context, id int, rn types.RuleName) (types.RuleName, error) {
	const query = `
		UPDATE rule_name
		SET name = $1,
			description = $2,
			json = $3,
			template = $4,
			sql_str = $5,
			sql_part = $6
		WHERE id = $7`
	err := rowsAffected(r.db.ExecContext(ctx, query, rn.Name, rn.Description, rn.JSON, rn.Template, rn.SQLStr, rn.SQLPart, id))
	if err != nil {
		return types.RuleName{}, err
	}
	return r.Get(ctx, id)
}

func (r *RuleNameRepository) Delete(ctx context.Context, id int) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM rule_name WHERE id = $1`, id))
}
