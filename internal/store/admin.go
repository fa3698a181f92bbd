package store

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// AdminStore handles all admin-account database operations.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, username, password_hash, role, totp_secret, totp_enabled, created_at`

func scanAdmin(scanner interface{ Scan(...any) error }) (*models.AdminUser, error) {
	var u models.AdminUser
	var createdAt int64
	err := scanner.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&u.TOTPSecret, &u.TOTPEnabled, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

// FindByUsername retrieves an account by username. The lookup is
// case-sensitive. Returns nil if not found.
func (s *AdminStore) FindByUsername(username string) (*models.AdminUser, error) {
	row := s.db.QueryRow(`SELECT `+adminColumns+` FROM admin_users WHERE username = ?`, username)
	u, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves an account by its ID. Returns nil if not found.
func (s *AdminStore) FindByID(id int64) (*models.AdminUser, error) {
	row := s.db.QueryRow(`SELECT `+adminColumns+` FROM admin_users WHERE id = ?`, id)
	u, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return u, nil
}

// Create inserts a new account with a bcrypt-hashed password.
func (s *AdminStore) Create(username, password string, role models.Role) (*models.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	res, err := s.db.Exec(`
		INSERT INTO admin_users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?)
	`, username, string(hash), role, toMillis(createdAt))
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create admin id: %w", err)
	}

	return &models.AdminUser{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    createdAt,
	}, nil
}

// SetTOTPSecret saves the TOTP secret for an account (during 2FA enrollment).
func (s *AdminStore) SetTOTPSecret(id int64, secret string) error {
	_, err := s.db.Exec(`UPDATE admin_users SET totp_secret = ? WHERE id = ?`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for an account (after successful code
// verification).
func (s *AdminStore) EnableTOTP(id int64) error {
	_, err := s.db.Exec(`UPDATE admin_users SET totp_enabled = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// Delete removes an account by ID. Content created by the account keeps
// its rows; the schema nulls out creator_id via ON DELETE SET NULL.
func (s *AdminStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM admin_users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the account's stored hash.
func (s *AdminStore) CheckPassword(user *models.AdminUser, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
