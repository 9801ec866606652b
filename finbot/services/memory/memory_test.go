package memory

import (
	"context"
	"testing"

	"finbot/finbot/sources/psql"
	"finbot/finbot/sources/psql/dao"
	"finbot/finbot/sources/psql/models"
	"finbot/finbot/utils/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- Helpers ---

func setupTestDB(t *testing.T) *gorm.DB {
	logging.InitLogger() // ensures loggers aren't nil
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := psql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	users := dao.NewUserDAO(db)
	user, err := users.CreateUser(context.Background(), "user_test_1", "tester", "tester@example.com", nil)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// fakeSummarizer records its input and plays back a canned output.
type fakeSummarizer struct {
	lastInput string
	output    string
	err       error
	calls     int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.calls++
	f.lastInput = text
	return f.output, f.err
}
