package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulmatic/user-directory/internal/core/domain"
)

// uniqueViolation is the SQLSTATE raised when a UNIQUE constraint is hit.
const uniqueViolation = "23505"

const createSchema = `
CREATE TABLE IF NOT EXISTS users (
	id         UUID        PRIMARY KEY,
	seq        BIGSERIAL   NOT NULL,
	username   TEXT        NOT NULL UNIQUE,
	firstname  TEXT        NOT NULL,
	lastname   TEXT        NOT NULL,
	password   TEXT        NOT NULL,
	role       TEXT        NOT NULL DEFAULT 'user',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const dropSchema = `DROP TABLE IF EXISTS users`

const userColumns = `id, username, firstname, lastname, password, role, created_at, updated_at`

// UserRepository implements ports.UserRepository on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, firstname, lastname, password, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		uuid.New(), user.Username, user.Firstname, user.Lastname, user.PasswordHash, user.Role,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// List returns all users in insertion order without the password column.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, username, firstname, lastname, role, created_at, updated_at
		FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.User, error) {
		var (
			u  domain.User
			id uuid.UUID
		)
		if err := row.Scan(&id, &u.Username, &u.Firstname, &u.Lastname, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.ID = id.String()
		return &u, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: scan: %w", err)
	}
	return users, nil
}

// Update sets every non-nil patch field. Nil pointers are sent as NULL and
// COALESCE keeps the stored value.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE users SET
			username   = COALESCE($2, username),
			firstname  = COALESCE($3, firstname),
			lastname   = COALESCE($4, lastname),
			password   = COALESCE($5, password),
			role       = COALESCE($6, role),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		uid, patch.Username, patch.Firstname, patch.Lastname, patch.PasswordHash, patch.Role,
	)

	u, err := scanUser(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrUserNotFound
		case isUniqueViolation(err):
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a non-admin user; the role guard lives in the WHERE clause.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1 AND role <> $2`, uid, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, uid).Scan(&exists); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if exists {
		return domain.ErrAdminProtected
	}
	return domain.ErrUserNotFound
}

func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createSchema); err != nil {
		return fmt.Errorf("ensure users table: %w", err)
	}
	return nil
}

// Reset drops and recreates the users table inside one transaction.
func (r *UserRepository) Reset(ctx context.Context) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, dropSchema); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, createSchema)
		return err
	})
	if err != nil {
		return fmt.Errorf("reset users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u  domain.User
		id uuid.UUID
	)
	if err := row.Scan(&id, &u.Username, &u.Firstname, &u.Lastname, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
