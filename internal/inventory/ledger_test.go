package inventory_test

import (
	"testing"

	"matbaa-backend/internal/inventory"
	"matbaa-backend/internal/models"
	"matbaa-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplySpend(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.CreateUser(t, db, "ayse", models.RoleAdmin)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, nil)

	m, err := inventory.ApplySpend(db, paper.ID, -12.5, "fire", nil, &user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 87.5, m.Quantity, 1e-9)

	// pozitif düzeltme de defterden geçer
	m, err = inventory.ApplySpend(db, paper.ID, 30, "sayım düzeltmesi", nil, &user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 117.5, m.Quantity, 1e-9)

	var moves []models.MaterialMove
	require.NoError(t, db.Order("id").Find(&moves).Error)
	require.Len(t, moves, 2)
	assert.InDelta(t, -12.5, moves[0].Delta, 1e-9)
	assert.Equal(t, "fire", moves[0].Reason)
	assert.InDelta(t, 30, moves[1].Delta, 1e-9)
	require.NotNil(t, moves[1].UserID)
	assert.Equal(t, user.ID, *moves[1].UserID)
}

func TestApplySpendUnknownMaterial(t *testing.T) {
	db := testutil.OpenDB(t)

	_, err := inventory.ApplySpend(db, 999, -1, "fire", nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListMovesFilters(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, nil)
	lamine := testutil.CreateMaterial(t, db, "Mat selefon", 50, nil)
	order := testutil.CreateOrder(t, db, nil)

	for _, mv := range []models.MaterialMove{
		{MaterialID: paper.ID, Delta: -5, Reason: "order add item", OrderID: &order.ID},
		{MaterialID: paper.ID, Delta: -3, Reason: "fire"},
		{MaterialID: lamine.ID, Delta: -1, Reason: "order add item", OrderID: &order.ID},
	} {
		require.NoError(t, db.Create(&mv).Error)
	}

	rows, err := inventory.ListMoves(db, inventory.MoveFilter{MaterialID: &paper.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "SRA3 kağıt 130gr", r.MaterialName)
	}

	rows, err = inventory.ListMoves(db, inventory.MoveFilter{OrderID: &order.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = inventory.ListMoves(db, inventory.MoveFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
