package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Default credentials for the bootstrap master account. These match the
// documented first-run login and are a known weakness: anyone who reads
// the docs knows them. Seed logs a warning and config refuses to enable
// seeding in production.
const (
	DefaultMasterUsername = "admin"
	DefaultMasterPassword = "admin123"
)

// Seed creates the bootstrap master account when no admin accounts exist
// yet. It is a no-op on an already-populated database.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return fmt.Errorf("seed check admin_users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultMasterPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO admin_users (username, password_hash, role, created_at)
		VALUES (?, ?, 'master', ?)
	`, DefaultMasterUsername, string(hash), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("seed insert master: %w", err)
	}

	slog.Warn("seeded bootstrap master account with the default password — change it",
		"username", DefaultMasterUsername,
	)

	return nil
}
