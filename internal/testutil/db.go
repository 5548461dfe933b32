package testutil

import (
	"testing"

	"matbaa-backend/internal/database"
	"matbaa-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB: testler için bellek içi sqlite; şema production ile aynı
// AutoMigrate çağrısından gelir.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser: testlerde kullanılacak kullanıcı; token alanı doğrudan verilir.
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) models.User {
	t.Helper()

	user := models.User{
		Name:         name,
		Email:        name + "@test.local",
		PasswordHash: "x", // login akışı kullanılmadıkça gerçek hash gerekmez
		Role:         role,
		ApiToken:     "tok-" + name,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateMaterial: stoklu malzeme kaydı.
func CreateMaterial(t *testing.T, db *gorm.DB, name string, qty float64, minQty *float64) models.Material {
	t.Helper()

	m := models.Material{Name: name, Unit: "adet", Quantity: qty, MinQuantity: minQty}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// CreateOrder: boş sipariş.
func CreateOrder(t *testing.T, db *gorm.DB, userID *uint) models.Order {
	t.Helper()

	o := models.Order{Status: 1, UserID: userID}
	require.NoError(t, db.Create(&o).Error)
	return o
}

// SetRecipe: (kategori, açıklama) için reçete satırları yazar.
func SetRecipe(t *testing.T, db *gorm.DB, category, description string, rows map[uint]float64) {
	t.Helper()

	for materialID, qty := range rows {
		pm := models.ProductMaterial{
			PresetCategory:    category,
			PresetDescription: description,
			MaterialID:        materialID,
			QtyPerItem:        qty,
		}
		require.NoError(t, db.Create(&pm).Error)
	}
}

// Ptr: literal değerden pointer üretir.
func Ptr[T any](v T) *T {
	return &v
}
