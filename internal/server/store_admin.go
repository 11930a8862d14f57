package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const adminSessionTTL = 7 * 24 * time.Hour

type adminDoc struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    string `json:"createdAt"`
}

type adminSessionDoc struct {
	ID        string `json:"id"`
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// AdminDocStore implements AdminStore on the admins and admin_sessions tables.
type AdminDocStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewAdminDocStore(db *sql.DB) *AdminDocStore {
	return &AdminDocStore{db: db, now: time.Now}
}

// EnsureAdmin creates the admin account when no admin exists yet. Existing
// accounts are left untouched, including their passwords.
func (s *AdminDocStore) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing admin password: %w", err)
	}
	admin := adminDoc{
		ID:           newID(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		CreatedAt:    nowUTC(),
	}
	data, err := json.Marshal(admin)
	if err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, data) VALUES (?, ?, jsonb(?))`,
		admin.ID, admin.Email, string(data),
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AdminDocStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admins WHERE email = ?`, email,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	var a adminDoc
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return "", "", err
	}
	return a.ID, a.PasswordHash, nil
}

func (s *AdminDocStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	// Look up admin email.
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admins WHERE id = ?`, adminID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	var a adminDoc
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return "", err
	}

	sessionID := newID()
	sessData, err := json.Marshal(adminSessionDoc{
		ID:        sessionID,
		AdminID:   adminID,
		Email:     a.Email,
		CreatedAt: nowUTC(),
	})
	if err != nil {
		return "", err
	}
	expires := s.now().Add(adminSessionTTL).UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, admin_id, expires_at, data) VALUES (?, ?, ?, jsonb(?))`,
		sessionID, adminID, expires, string(sessData),
	)
	return sessionID, err
}

func (s *AdminDocStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE id = ?`, sessionID,
	)
	return err
}

// AdminFromSession resolves a live session. Expired sessions are removed.
func (s *AdminDocStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var data, expires string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data), expires_at FROM admin_sessions WHERE id = ?`, sessionID,
	).Scan(&data, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}

	exp, err := time.Parse(time.RFC3339, expires)
	if err != nil || !s.now().Before(exp) {
		s.DeleteAdminSession(ctx, sessionID)
		return adminSession{}, errNoAdminSession
	}

	var as adminSessionDoc
	if err := json.Unmarshal([]byte(data), &as); err != nil {
		return adminSession{}, err
	}
	return adminSession{AdminID: as.AdminID, Email: as.Email}, nil
}
