package store

import (
	"testing"

	"inkwell/internal/models"
)

func TestAdminStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	user, err := s.Create("alice", "pw1234", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if user.Username != "alice" {
		t.Errorf("username: got %q, want alice", user.Username)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", user.Role)
	}
	if user.PasswordHash == "" {
		t.Error("expected non-empty password hash")
	}
	if user.PasswordHash == "pw1234" {
		t.Error("password hash must not be plaintext")
	}
	if user.TOTPEnabled {
		t.Error("new accounts must not have 2FA enabled")
	}
}

func TestAdminStoreCreateDuplicateUsername(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	if _, err := s.Create("bob", "pw", models.RoleAdmin); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create("bob", "other", models.RoleAdmin); err == nil {
		t.Fatal("expected unique-constraint error for duplicate username")
	}
}

func TestAdminStoreFindByUsername(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	// Not found case.
	user, err := s.FindByUsername("ghost")
	if err != nil {
		t.Fatalf("FindByUsername (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent account")
	}

	created, err := s.Create("carol", "pw", models.RoleMaster)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err = s.FindByUsername("carol")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected account, got nil")
	}
	if user.ID != created.ID {
		t.Errorf("ID mismatch: got %d, want %d", user.ID, created.ID)
	}
	if user.Role != models.RoleMaster {
		t.Errorf("role: got %q, want master", user.Role)
	}

	// Lookup is case-sensitive.
	user, err = s.FindByUsername("Carol")
	if err != nil {
		t.Fatalf("FindByUsername (case): %v", err)
	}
	if user != nil {
		t.Error("username lookup must be case-sensitive")
	}
}

func TestAdminStoreFindByID(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	created, err := s.Create("dave", "pw", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user == nil || user.Username != "dave" {
		t.Fatalf("FindByID: got %+v, want dave", user)
	}

	user, err = s.FindByID(created.ID + 1000)
	if err != nil {
		t.Fatalf("FindByID (missing): %v", err)
	}
	if user != nil {
		t.Error("expected nil for missing ID")
	}
}

func TestAdminStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	user, err := s.Create("erin", "s3cret", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.CheckPassword(user, "s3cret") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestAdminStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	user, err := s.Create("frank", "pw", models.RoleMaster)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	got, err := s.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.TOTPSecret == nil || *got.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("totp secret not persisted")
	}
	if !got.TOTPEnabled {
		t.Error("totp not enabled")
	}
	if !got.Needs2FA() {
		t.Error("enrolled account should require 2FA")
	}
}

func TestAdminStoreDeleteNullsCreator(t *testing.T) {
	db := testDB(t)
	admins := NewAdminStore(db)
	contents := NewContentStore(db)

	user, err := admins.Create("gone", "pw", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create admin: %v", err)
	}

	item, err := contents.Create(&models.ContentItem{
		Title:       "Orphan test",
		IsPublished: true,
		CreatorID:   &user.ID,
	})
	if err != nil {
		t.Fatalf("Create content: %v", err)
	}

	if err := admins.Delete(user.ID); err != nil {
		t.Fatalf("Delete admin: %v", err)
	}

	got, err := contents.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("content row must survive creator deletion")
	}
	if got.CreatorID != nil {
		t.Error("creator_id should be NULL after creator deletion")
	}
	if got.CreatorName != "" {
		t.Errorf("creator name: got %q, want empty", got.CreatorName)
	}
}
