// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Artistsreach/storegen-sub000/internal/config"
	"github.com/Artistsreach/storegen-sub000/internal/models"
)

// setupTestDB opens an isolated in-memory database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Product{},
		&models.Order{},
		&models.Subscription{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Stripe: config.StripeConfig{
			SecretKey:     "sk_test_123",
			WebhookSecret: "whsec_test",
		},
		Frontend: config.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Username: fmt.Sprintf("owner%s", uuid.New().String()[:8]),
		Email:    fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		Role:     models.UserRoleStoreOwner,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("StrongPass1!"))
	require.NoError(t, db.Create(user).Error)
	return user
}
