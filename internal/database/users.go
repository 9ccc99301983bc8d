package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, full_name, hashed_password, phone, role, is_active, is_verified,
	verification_token, verification_token_expires, password_reset_token, password_reset_token_expires,
	created_at, updated_at, last_login`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Phone, &u.Role, &u.IsActive, &u.IsVerified,
		&u.VerificationToken, &u.VerificationTokenExpires, &u.PasswordResetToken, &u.PasswordResetTokenExpires,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a new user row. Duplicate emails map to ErrConflict.
func (r *Repository) CreateUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, full_name, hashed_password, phone, role, is_active, is_verified,
		                   verification_token, verification_token_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		u.Email, u.FullName, u.HashedPassword, u.Phone, u.Role, u.IsActive, u.IsVerified,
		u.VerificationToken, u.VerificationTokenExpires,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ListUsers returns every user, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// GetUserByID returns a user by primary key.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail returns a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetUserByVerificationToken returns the user holding an email verification token.
func (r *Repository) GetUserByVerificationToken(ctx context.Context, token string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token))
}

// GetUserByResetToken returns the user holding a password reset token.
func (r *Repository) GetUserByResetToken(ctx context.Context, token string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE password_reset_token = $1`, token))
}

// MarkUserVerified flips the verified flag and clears the token pair.
func (r *Repository) MarkUserVerified(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, verification_token_expires = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

// SetVerificationToken stores a fresh verification token and expiry.
func (r *Repository) SetVerificationToken(ctx context.Context, id int64, token string, expires time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET verification_token = $1, verification_token_expires = $2 WHERE id = $3
	`, token, expires, id)
	if err != nil {
		return fmt.Errorf("failed to set verification token: %w", err)
	}
	return nil
}

// SetPasswordResetToken stores a fresh reset token and expiry.
func (r *Repository) SetPasswordResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET password_reset_token = $1, password_reset_token_expires = $2 WHERE id = $3
	`, token, expires, id)
	if err != nil {
		return fmt.Errorf("failed to set password reset token: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password hash and clears any reset token.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET hashed_password = $1, password_reset_token = NULL, password_reset_token_expires = NULL,
		    updated_at = NOW()
		WHERE id = $2
	`, hashed, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// TouchLastLogin records a successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UserUpdate carries the optional profile fields of a partial update. Only
// non-nil fields are applied.
type UserUpdate struct {
	FullName       *string
	Phone          *string
	HashedPassword *string
}

// UpdateUserProfile applies a partial profile update, field by field.
func (r *Repository) UpdateUserProfile(ctx context.Context, id int64, upd UserUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := 1
	if upd.FullName != nil {
		sets = append(sets, fmt.Sprintf("full_name = $%d", arg))
		args = append(args, *upd.FullName)
		arg++
	}
	if upd.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", arg))
		args = append(args, *upd.Phone)
		arg++
	}
	if upd.HashedPassword != nil {
		sets = append(sets, fmt.Sprintf("hashed_password = $%d", arg))
		args = append(args, *upd.HashedPassword)
		arg++
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), arg)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertActivityLog appends one activity record.
func (r *Repository) InsertActivityLog(ctx context.Context, log *ActivityLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_logs (user_id, action, details, ip_address, timestamp)
		VALUES ($1, $2, $3, $4, $5)
	`, log.UserID, log.Action, log.Details, log.IPAddress, log.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}

// ListActivityLogs returns the most recent activity rows for a user.
func (r *Repository) ListActivityLogs(ctx context.Context, userID int64, limit int) ([]ActivityLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, action, details, ip_address, timestamp
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var logs []ActivityLog
	for rows.Next() {
		var l ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.IPAddress, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// HasPermission reports whether a named permission row exists for the user.
// Role-level bypasses (admin) are decided by the caller.
func (r *Repository) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission_name = $2
		)
	`, userID, permission).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return exists, nil
}
