// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"photoshare/internal/database"
	"photoshare/internal/domain"
	"photoshare/internal/repository"
)

// Open returns an empty in-memory database. The pool is pinned to one
// connection so every query sees the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Quiet(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Users inserts an account row for each principal, keeping its ID and role,
// so rows that reference users satisfy their foreign keys. The database must
// already be migrated.
func Users(t testing.TB, db *gorm.DB, users ...*domain.User) {
	t.Helper()

	repo := repository.NewUserRepository(db)
	for _, u := range users {
		row := *u
		if row.Username == "" {
			row.Username = fmt.Sprintf("user%d", u.ID)
		}
		if row.Email == "" {
			row.Email = fmt.Sprintf("user%d@example.test", u.ID)
		}
		if err := repo.Create(context.Background(), &row); err != nil {
			t.Fatalf("seed user %d: %v", u.ID, err)
		}
	}
}
