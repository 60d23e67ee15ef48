package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrNotFound          = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, username, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	args := []any{
		u.Name,
		u.Username,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"users_username_key\"":
			return ErrDuplicateUsername
		case err.Error() == "pq: duplicate key value violates unique constraint \"users_email_key\"":
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, name, username, email, password, avatar, activated, created_at, updated_at, version
		FROM users
		WHERE username = $1 AND deleted_at IS NULL`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Password.hash,
		&u.Avatar, &u.Activated, &u.CreatedAt, &u.UpdatedAt, &u.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getUserByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, username, email, avatar, activated, created_at, updated_at, version
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var u User
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Avatar,
		&u.Activated, &u.CreatedAt, &u.UpdatedAt, &u.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// getUserCredentials fetches only what a password check needs.
func (m *DBModel) getUserCredentials(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, password, version
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Password.hash, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) updateUser(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND version = $4 AND deleted_at IS NULL
		RETURNING version`

	args := []any{u.Name, u.Email, u.ID, u.Version}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.Version)
	if err != nil {
		switch {
		case err.Error() == "pq: duplicate key value violates unique constraint \"users_email_key\"":
			return ErrDuplicateEmail
		case errors.Is(err, sql.ErrNoRows):
			return ErrNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) updateUserPassword(ctx context.Context, id int, hash []byte, version int) error {
	query := `
		UPDATE users
		SET password = $1, updated_at = now(), version = version + 1
		WHERE id = $2 AND version = $3 AND deleted_at IS NULL`

	res, err := m.db.ExecContext(ctx, query, hash, id, version)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// listUsers pages through non-deleted users ordered by display name.
func (m *DBModel) listUsers(ctx context.Context, limit, offset int) ([]User, error) {
	query := `
		SELECT id, name, username, avatar, created_at, updated_at
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Avatar, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (m *DBModel) countUsers(ctx context.Context) (int, error) {
	var total int
	err := m.db.QueryRowContext(ctx, "SELECT count(*) FROM users WHERE deleted_at IS NULL").Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (m *DBModel) softDeleteUser(ctx context.Context, id int) error {
	query := `
		UPDATE users
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *DBModel) activateUserAccount(tx *sql.Tx, ctx context.Context, id int, version int) error {
	query := `
		UPDATE users
		SET activated = true, version = version + 1
		WHERE id = $1 AND version = $2`

	res, err := tx.ExecContext(ctx, query, id, version)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows != 1 {
		switch {
		case rows == 0:
			return ErrNotFound
		default:
			return errors.New("too many rows affected")
		}
	}

	return nil
}

// getUserByAccessToken resolves a hashed access token to its active user and
// permission set.
func (m *DBModel) getUserByAccessToken(ctx context.Context, token []byte) (*User, error) {
	var u User

	query := `
		SELECT u.id, u.name, u.username, u.email, u.activated, u.version, p.permission
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		INNER JOIN user_permissions p ON u.id = p.user_id
		WHERE t.access_token = $1 AND t.access_token_expiry > $2 AND u.deleted_at IS NULL`

	rows, err := m.db.QueryContext(ctx, query, token, time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p Permission
		err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Activated, &u.Version, &p)
		if err != nil {
			return nil, err
		}

		u.Permissions = append(u.Permissions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if u.ID == 0 {
		return nil, ErrNotFound
	}

	return &u, nil
}
