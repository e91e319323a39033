package service

import (
	"testing"

	"go-retailnet/internal/model"
	"go-retailnet/internal/repository"
)

func TestLoginIssuesTokenAndRotatesSession(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))

	user := createTestUser(t, db, "sales@example.com", model.RoleSales)

	resp, err := svc.Login("sales@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("login must return a token")
	}
	if resp.Role != model.RoleSales {
		t.Errorf("role = %s, want SALES", resp.Role)
	}
	if resp.User.Email != user.Email {
		t.Errorf("user email = %s, want %s", resp.User.Email, user.Email)
	}

	// First token still validates
	if _, err := svc.ValidateToken(resp.Token); err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	// A second login rotates the token version, killing the first session
	second, err := svc.Login("sales@example.com", "secret123")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if _, err := svc.ValidateToken(resp.Token); err == nil {
		t.Error("first token must be invalid after a second login")
	}
	if _, err := svc.ValidateToken(second.Token); err != nil {
		t.Errorf("second token must validate: %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))

	createTestUser(t, db, "sales@example.com", model.RoleSales)

	if _, err := svc.Login("sales@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("nobody@example.com", "secret123"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}

	inactive := createTestUser(t, db, "gone@example.com", model.RoleSales)
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}
	if _, err := svc.Login("gone@example.com", "secret123"); err != ErrUserInactive {
		t.Errorf("inactive user: got %v, want ErrUserInactive", err)
	}
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))

	createTestUser(t, db, "sales@example.com", model.RoleSales)

	if err := svc.ResetPassword("sales@example.com", "wrong", "newpass123"); err != ErrInvalidCredentials {
		t.Errorf("wrong old password: got %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ResetPassword("sales@example.com", "secret123", "newpass123"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if _, err := svc.Login("sales@example.com", "secret123"); err == nil {
		t.Error("old password must no longer work")
	}
	if _, err := svc.Login("sales@example.com", "newpass123"); err != nil {
		t.Errorf("new password login failed: %v", err)
	}
}

func TestHeartbeatUpdatesLastSeen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db))

	user := createTestUser(t, db, "sales@example.com", model.RoleSales)

	if err := svc.Heartbeat(user.ID); err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}

	var reloaded model.User
	if err := db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.LastSeenAt == nil {
		t.Error("last_seen_at must be set after heartbeat")
	}
}
