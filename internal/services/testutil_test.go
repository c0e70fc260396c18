package services

import (
	"testing"

	"github.com/TriStrac/scarrow-server/internal/models"
	"github.com/TriStrac/scarrow-server/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))
	return db
}

func testUserParams(email string) CreateUserParams {
	return CreateUserParams{
		Email:    email,
		Password: "secret123",
		Address: models.Address{
			StreetName: "1 Mango St",
			Barangay:   "San Isidro",
			Town:       "Lipa",
			Province:   "Batangas",
			ZipCode:    "4217",
		},
		Profile: models.Profile{
			FirstName:   "Juan",
			LastName:    "Dela Cruz",
			BirthDate:   "1990-01-01",
			PhoneNumber: "+639171234567",
		},
	}
}
