package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordle/apps/go-wordle/assets"
	"github.com/robalobadob/wordle/apps/go-wordle/internal/sqlitedb"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlitedb.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"), assets.Migrations())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db)
	s.cost = bcrypt.MinCost
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		ok       bool
	}{
		{"valid", "word_smith9", "longenough", true},
		{"short username", "ab", "longenough", false},
		{"long username", "abcdefghijklmnopqrstuvwxy", "longenough", false},
		{"bad char", "ada-l", "longenough", false},
		{"short password", "ada", "1234567", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.username, tt.password)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSignup)
			}
		})
	}
}

func TestStore_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	// Given: a new account
	u, err := s.Create(ctx, "Ada", "analytical")
	require.NoError(t, err)
	assert.Len(t, u.ID, 22)
	assert.NotEqual(t, "analytical", u.PasswordHash)

	// Then: the username is unique regardless of case
	_, err = s.Create(ctx, "ada", "different1")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.Authenticate(ctx, "ADA", "analytical")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Ada", got.Username)

	_, err = s.Authenticate(ctx, "ada", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody", "analytical")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err = s.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

	_, err = s.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
