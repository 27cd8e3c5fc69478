package store

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/poseidon-capital/console/types"
)

var bcryptDigest = regexp.MustCompile(`^\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}$`)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, fullname, role, password_hash, created_at, updated_at`

func scanUser(row scanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return types.User{}, mapError(err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *UserRepository) Get(ctx context.Context, id int) (types.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// Create inserts a user. PasswordHash must already be a bcrypt digest.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if !bcryptDigest.MatchString(user.PasswordHash) {
		return types.User{}, ErrPlaintextPassword
	}

	now := time.Now().UTC()
	const query = `
		INSERT INTO users (username, fullname, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id int
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.FullName,
		user.Role,
		user.PasswordHash,
		now,
		now,
	).Scan(&id)
	if err != nil {
		return types.User{}, mapError(err)
	}
	return r.Get(ctx, id)
}

// Update overwrites the profile columns of user id. An empty PasswordHash
// keeps the stored digest.
func (r *UserRepository) Update(ctx context.Context, id int, user types.User) (types.User, error) {
	if user.PasswordHash != "" && !bcryptDigest.MatchString(user.PasswordHash) {
		return types.User{}, ErrPlaintextPassword
	}

	const query = `
		UPDATE users
		SET username = $1,
			fullname = $2,
			role = $3,
			password_hash = COALESCE(NULLIF($4, ''), password_hash),
			updated_at = $5
		WHERE id = $6`
	err := rowsAffected(r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.FullName,
		user.Role,
		user.PasswordHash,
		time.Now().UTC(),
		id,
	))
	if err != nil {
		return types.User{}, err
	}
	return r.Get(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}
