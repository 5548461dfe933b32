package orders_test

import (
	"testing"

	"matbaa-backend/internal/models"
	"matbaa-backend/internal/orders"
	"matbaa-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemDeductsStockAndWritesMove(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, nil)
	testutil.SetRecipe(t, db, "El ilanı", "El ilanı A6, 4+0", map[uint]float64{paper.ID: 1})
	order := testutil.CreateOrder(t, db, nil)

	item, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "El ilanı",
		Params:   map[string]any{"description": "El ilanı A6, 4+0"},
		Price:    0.5,
		Quantity: 20,
		Sides:    2,
		Sheets:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
	assert.Equal(t, 12, item.Clicks) // 3 tabaka x 2 yüz x 2

	var m models.Material
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 80, m.Quantity, 1e-9)

	var moves []models.MaterialMove
	require.NoError(t, db.Find(&moves).Error)
	require.Len(t, moves, 1)
	assert.Equal(t, paper.ID, moves[0].MaterialID)
	assert.InDelta(t, -20, moves[0].Delta, 1e-9)
	assert.Equal(t, "order add item", moves[0].Reason)
	require.NotNil(t, moves[0].OrderID)
	assert.Equal(t, order.ID, *moves[0].OrderID)
}

func TestAddItemRejectsWhenMinStockWouldBeBreached(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, testutil.Ptr(10.0))
	testutil.SetRecipe(t, db, "El ilanı", "El ilanı A6, 4+0", map[uint]float64{paper.ID: 1})
	order := testutil.CreateOrder(t, db, nil)

	// 100 - 95 = 5 < 10: alt sınır ihlali
	_, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "El ilanı",
		Params:   map[string]any{"description": "El ilanı A6, 4+0"},
		Quantity: 95,
	})
	var insufficient *orders.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, paper.ID, insufficient.MaterialID)

	// transaction geri alındı: stok, hareketler ve kalemler dokunulmamış olmalı
	var m models.Material
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 100, m.Quantity, 1e-9)

	var moveCount, itemCount int64
	db.Model(&models.MaterialMove{}).Count(&moveCount)
	db.Model(&models.Item{}).Count(&itemCount)
	assert.Zero(t, moveCount)
	assert.Zero(t, itemCount)
}

func TestAddItemRollsBackEarlierDeductions(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 150gr", 100, nil)
	lamine := testutil.CreateMaterial(t, db, "Mat selefon", 5, testutil.Ptr(3.0))
	testutil.SetRecipe(t, db, "Kartvizit", "Kartvizit 90x50, tek yüz", map[uint]float64{
		paper.ID:  1,
		lamine.ID: 1,
	})
	order := testutil.CreateOrder(t, db, nil)

	_, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "Kartvizit",
		Params:   map[string]any{"description": "Kartvizit 90x50, tek yüz"},
		Quantity: 10, // selefon için 5 - 10 < 3
	})
	var insufficient *orders.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// kağıt düşümü de geri alınmış olmalı
	var m models.Material
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 100, m.Quantity, 1e-9)
}

func TestAddItemWithExplicitComponents(t *testing.T) {
	db := testutil.OpenDB(t)
	branda := testutil.CreateMaterial(t, db, "Branda rulosu", 50, nil)
	order := testutil.CreateOrder(t, db, nil)

	item, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "Branda afiş",
		Params:   map[string]any{"description": "Branda 2x1 m"},
		Quantity: 3,
		Components: []orders.Component{
			{MaterialID: branda.ID, QtyPerItem: 2},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, item.Params, "components")

	var m models.Material
	require.NoError(t, db.First(&m, branda.ID).Error)
	assert.InDelta(t, 44, m.Quantity, 1e-9) // 50 - 3*2
}

func TestAddItemUnknownComponentMaterial(t *testing.T) {
	db := testutil.OpenDB(t)
	order := testutil.CreateOrder(t, db, nil)

	_, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:       "Branda afiş",
		Params:     map[string]any{"description": "Branda 2x1 m"},
		Quantity:   1,
		Components: []orders.Component{{MaterialID: 999, QtyPerItem: 1}},
	})
	var unknown *orders.UnknownMaterialError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, uint(999), unknown.MaterialID)
}

func TestRemoveItemRestoresAndIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, nil)
	testutil.SetRecipe(t, db, "El ilanı", "El ilanı A5, 4+0", map[uint]float64{paper.ID: 0.5})
	order := testutil.CreateOrder(t, db, nil)

	item, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "El ilanı",
		Params:   map[string]any{"description": "El ilanı A5, 4+0"},
		Quantity: 40,
	})
	require.NoError(t, err)

	require.NoError(t, orders.RemoveItem(db, order.ID, item.ID, nil))

	var m models.Material
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 100, m.Quantity, 1e-9)

	var moves []models.MaterialMove
	require.NoError(t, db.Order("id").Find(&moves).Error)
	require.Len(t, moves, 2)
	assert.InDelta(t, -20, moves[0].Delta, 1e-9)
	assert.InDelta(t, 20, moves[1].Delta, 1e-9)
	assert.Equal(t, "order delete item", moves[1].Reason)

	// ikinci silme sessizce başarı döner, yeni hareket yazmaz
	require.NoError(t, orders.RemoveItem(db, order.ID, item.ID, nil))
	var count int64
	db.Model(&models.MaterialMove{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestUpdateItemQuantityMovesOnlyTheDelta(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, nil)
	testutil.SetRecipe(t, db, "El ilanı", "El ilanı A4, 4+0", map[uint]float64{paper.ID: 1})
	order := testutil.CreateOrder(t, db, nil)

	item, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "El ilanı",
		Params:   map[string]any{"description": "El ilanı A4, 4+0"},
		Quantity: 10,
	})
	require.NoError(t, err)

	// 10 -> 4: 6 iade
	updated, err := orders.UpdateItem(db, order.ID, item.ID, nil, orders.UpdateItemInput{
		Quantity: testutil.Ptr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	var m models.Material
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 96, m.Quantity, 1e-9)

	// 4 -> 12: 8 düşüm
	updated, err = orders.UpdateItem(db, order.ID, item.ID, nil, orders.UpdateItemInput{
		Quantity: testutil.Ptr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 88, m.Quantity, 1e-9)
}

func TestUpdateItemRecomputesClicks(t *testing.T) {
	db := testutil.OpenDB(t)
	order := testutil.CreateOrder(t, db, nil)

	item, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "Afiş",
		Params:   map[string]any{"description": "Afiş A3"},
		Quantity: 5,
		Sides:    1,
		Sheets:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, item.Clicks)

	updated, err := orders.UpdateItem(db, order.ID, item.ID, nil, orders.UpdateItemInput{
		Sides:  testutil.Ptr(2),
		Sheets: testutil.Ptr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 28, updated.Clicks)
}

func TestReleaseOrderAggregatesReturnsPerMaterial(t *testing.T) {
	db := testutil.OpenDB(t)
	paper := testutil.CreateMaterial(t, db, "SRA3 kağıt 130gr", 100, nil)
	testutil.SetRecipe(t, db, "El ilanı", "El ilanı A6, 4+0", map[uint]float64{paper.ID: 1})
	testutil.SetRecipe(t, db, "El ilanı", "El ilanı A5, 4+0", map[uint]float64{paper.ID: 2})
	order := testutil.CreateOrder(t, db, nil)

	_, err := orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "El ilanı",
		Params:   map[string]any{"description": "El ilanı A6, 4+0"},
		Quantity: 10,
	})
	require.NoError(t, err)
	_, err = orders.AddItem(db, order.ID, nil, orders.AddItemInput{
		Type:     "El ilanı",
		Params:   map[string]any{"description": "El ilanı A5, 4+0"},
		Quantity: 5,
	})
	require.NoError(t, err)

	require.NoError(t, orders.ReleaseOrder(db, order.ID, nil))

	var m models.Material
	require.NoError(t, db.First(&m, paper.ID).Error)
	assert.InDelta(t, 100, m.Quantity, 1e-9)

	// iade malzeme başına tek satır: 2 düşüm + 1 toplu iade
	var moves []models.MaterialMove
	require.NoError(t, db.Order("id").Find(&moves).Error)
	require.Len(t, moves, 3)
	assert.InDelta(t, 20, moves[2].Delta, 1e-9) // 10*1 + 5*2
	assert.Equal(t, "order delete", moves[2].Reason)

	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.Item{}).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}
