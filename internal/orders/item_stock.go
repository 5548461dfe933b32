package orders

import (
	"encoding/json"
	"fmt"
	"math"

	"matbaa-backend/internal/models"

	"gorm.io/gorm"
)

// Component: çağıranın reçete yerine doğrudan verdiği malzeme bileşeni.
type Component struct {
	MaterialID uint    `json:"materialId"`
	QtyPerItem float64 `json:"qtyPerItem"`
}

// InsufficientStockError: minimum stok sınırı aşılacağı için işlem reddedildi.
type InsufficientStockError struct {
	MaterialID uint
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Minimum stok dikkate alındığında malzeme yetersiz (ID=%d)", e.MaterialID)
}

// UnknownMaterialError: bileşen listesinde var olmayan bir malzeme geçiyor.
type UnknownMaterialError struct {
	MaterialID uint
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("Malzeme bulunamadı (ID=%d)", e.MaterialID)
}

// materialNeed: bir kalemin ihtiyaç duyduğu malzeme ve malzemenin anlık durumu.
type materialNeed struct {
	MaterialID  uint
	QtyPerItem  float64
	Quantity    float64
	MinQuantity *float64
}

type AddItemInput struct {
	Type       string
	Params     map[string]any // en azından "description" içerir
	Price      float64
	Quantity   int
	PrinterID  *uint
	Sides      int
	Sheets     int
	Waste      int
	Components []Component // boşsa reçete (product_materials) kullanılır
}

type UpdateItemInput struct {
	Price     *float64
	Quantity  *int
	PrinterID *uint
	Sides     *int
	Sheets    *int
	Waste     *int
}

// resolveRecipe: (kategori, açıklama) reçetesini anlık stok bilgisiyle yükler.
func resolveRecipe(tx *gorm.DB, category, description string) ([]materialNeed, error) {
	var needs []materialNeed
	err := tx.Table("product_materials pm").
		Select("pm.material_id, pm.qty_per_item, m.quantity, m.min_quantity").
		Joins("JOIN materials m ON m.id = pm.material_id").
		Where("pm.preset_category = ? AND pm.preset_description = ?", category, description).
		Scan(&needs).Error
	return needs, err
}

// resolveComponents: çağıranın verdiği bileşenleri malzemelerin anlık durumuyla eşler.
func resolveComponents(tx *gorm.DB, components []Component) ([]materialNeed, error) {
	ids := make([]uint, 0, len(components))
	for _, comp := range components {
		ids = append(ids, comp.MaterialID)
	}

	var mats []models.Material
	if err := tx.Where("id IN ?", ids).Find(&mats).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Material, len(mats))
	for _, m := range mats {
		byID[m.ID] = m
	}

	needs := make([]materialNeed, 0, len(components))
	for _, comp := range components {
		m, ok := byID[comp.MaterialID]
		if !ok {
			return nil, &UnknownMaterialError{MaterialID: comp.MaterialID}
		}
		needs = append(needs, materialNeed{
			MaterialID:  comp.MaterialID,
			QtyPerItem:  comp.QtyPerItem,
			Quantity:    m.Quantity,
			MinQuantity: m.MinQuantity,
		})
	}
	return needs, nil
}

// deduct: stok düş + hareket satırı ekle. Alt sınır ihlalinde hata döner,
// transaction geri alındığı için önceki düşüşler de iptal olur.
func deduct(tx *gorm.DB, needs []materialNeed, factor int, reason string, orderID uint, userID *uint) error {
	for _, n := range needs {
		need := n.QtyPerItem * float64(factor)
		if need <= 0 {
			continue
		}
		minQ := math.Inf(-1)
		if n.MinQuantity != nil {
			minQ = *n.MinQuantity
		}
		if n.Quantity-need < minQ {
			return &InsufficientStockError{MaterialID: n.MaterialID}
		}
		if err := tx.Model(&models.Material{}).Where("id = ?", n.MaterialID).
			Update("quantity", gorm.Expr("quantity - ?", need)).Error; err != nil {
			return err
		}
		move := models.MaterialMove{
			MaterialID: n.MaterialID,
			Delta:      -need,
			Reason:     reason,
			OrderID:    &orderID,
			UserID:     userID,
		}
		if err := tx.Create(&move).Error; err != nil {
			return err
		}
	}
	return nil
}

// restore: stok iade + hareket satırı ekle.
func restore(tx *gorm.DB, materialID uint, qty float64, reason string, orderID uint, userID *uint) error {
	if qty <= 0 {
		return nil
	}
	if err := tx.Model(&models.Material{}).Where("id = ?", materialID).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
		return err
	}
	move := models.MaterialMove{
		MaterialID: materialID,
		Delta:      qty,
		Reason:     reason,
		OrderID:    &orderID,
		UserID:     userID,
	}
	return tx.Create(&move).Error
}

// AddItem: kalem ekleme. Stok kontrolü, düşüm, hareket kaydı ve kalem insert'i
// tek transaction içinde yapılır; herhangi bir adım başarısız olursa tamamı geri alınır.
func AddItem(db *gorm.DB, orderID uint, userID *uint, in AddItemInput) (*models.Item, error) {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	sides := in.Sides
	if sides < 1 {
		sides = 1
	}
	sheets := in.Sheets
	if sheets < 0 {
		sheets = 0
	}
	waste := in.Waste
	if waste < 0 {
		waste = 0
	}

	var item models.Item
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		description, _ := in.Params["description"].(string)
		var needs []materialNeed
		var err error
		if len(in.Components) > 0 {
			needs, err = resolveComponents(tx, in.Components)
		} else {
			needs, err = resolveRecipe(tx, in.Type, description)
		}
		if err != nil {
			return err
		}

		if err := deduct(tx, needs, qty, "order add item", orderID, userID); err != nil {
			return err
		}

		params := make(map[string]any, len(in.Params)+1)
		for k, v := range in.Params {
			params[k] = v
		}
		if len(in.Components) > 0 {
			params["components"] = in.Components
		}
		paramsJSON, err := json.Marshal(params)
		if err != nil {
			return err
		}

		// SRA3 tek yüz = 2 klik, çift yüz = 4
		item = models.Item{
			OrderID:   orderID,
			Type:      in.Type,
			Params:    string(paramsJSON),
			Price:     in.Price,
			Quantity:  qty,
			PrinterID: in.PrinterID,
			Sides:     sides,
			Sheets:    sheets,
			Waste:     waste,
			Clicks:    sheets * sides * 2,
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// itemDescription: kalemin saklı params JSON'undan açıklamayı çıkarır.
func itemDescription(item *models.Item) string {
	var params struct {
		Description string `json:"description"`
	}
	_ = json.Unmarshal([]byte(item.Params), &params)
	return params.Description
}

// UpdateItem: kısmi alan güncellemesi. Miktar değişirse fark kadar stok
// düşülür ya da iade edilir; klik sayısı yeni sides/sheets'ten yeniden hesaplanır.
func UpdateItem(db *gorm.DB, orderID, itemID uint, userID *uint, in UpdateItemInput) (*models.Item, error) {
	var item models.Item
	if err := db.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
		return nil, err
	}

	newQty := item.Quantity
	if in.Quantity != nil {
		newQty = *in.Quantity
		if newQty < 1 {
			newQty = 1
		}
	}
	deltaQty := newQty - item.Quantity

	err := db.Transaction(func(tx *gorm.DB) error {
		if deltaQty != 0 {
			needs, err := resolveRecipe(tx, item.Type, itemDescription(&item))
			if err != nil {
				return err
			}
			if deltaQty > 0 {
				if err := deduct(tx, needs, deltaQty, "order update qty +", orderID, userID); err != nil {
					return err
				}
			} else {
				for _, n := range needs {
					back := n.QtyPerItem * float64(-deltaQty)
					if err := restore(tx, n.MaterialID, back, "order update qty -", orderID, userID); err != nil {
						return err
					}
				}
			}
		}

		nextSides := item.Sides
		if in.Sides != nil {
			nextSides = *in.Sides
			if nextSides < 1 {
				nextSides = 1
			}
		}
		nextSheets := item.Sheets
		if in.Sheets != nil {
			nextSheets = *in.Sheets
			if nextSheets < 0 {
				nextSheets = 0
			}
		}

		// Alan varlığına göre açık güncelleme haritası; SQL parçası birleştirilmez.
		updates := map[string]any{
			"clicks": nextSheets * nextSides * 2,
		}
		if in.Price != nil {
			updates["price"] = *in.Price
		}
		if in.Quantity != nil {
			updates["quantity"] = newQty
		}
		if in.PrinterID != nil {
			updates["printer_id"] = *in.PrinterID
		}
		if in.Sides != nil {
			updates["sides"] = nextSides
		}
		if in.Sheets != nil {
			updates["sheets"] = nextSheets
		}
		if in.Waste != nil {
			waste := *in.Waste
			if waste < 0 {
				waste = 0
			}
			updates["waste"] = waste
		}

		return tx.Model(&models.Item{}).
			Where("id = ? AND order_id = ?", itemID, orderID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem: kalemi siler ve tüketimi iade eder. Kalem yoksa sessizce başarı
// döner (idempotent silme). İade her zaman saklı açıklamanın preset reçetesinden
// hesaplanır; kalem özel components ile açılmışsa tüketilenle iade edilen
// birebir örtüşmeyebilir — kaynak sistemin davranışı bilinçli olarak korunuyor.
func RemoveItem(db *gorm.DB, orderID, itemID uint, userID *uint) error {
	var item models.Item
	if err := db.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		needs, err := resolveRecipe(tx, item.Type, itemDescription(&item))
		if err != nil {
			return err
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		for _, n := range needs {
			back := n.QtyPerItem * float64(qty)
			if err := restore(tx, n.MaterialID, back, "order delete item", orderID, userID); err != nil {
				return err
			}
		}
		return tx.Where("id = ? AND order_id = ?", itemID, orderID).Delete(&models.Item{}).Error
	})
}

// ReleaseOrder: siparişi tüm kalemleriyle siler; kalemlerin tüketimi
// malzeme bazında toplanıp her malzeme için tek hareketle iade edilir.
func ReleaseOrder(db *gorm.DB, orderID uint, userID *uint) error {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return err
	}

	var items []models.Item
	if err := db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}

	returns := map[uint]float64{}
	for i := range items {
		needs, err := resolveRecipe(db, items[i].Type, itemDescription(&items[i]))
		if err != nil {
			return err
		}
		qty := items[i].Quantity
		if qty < 1 {
			qty = 1
		}
		for _, n := range needs {
			returns[n.MaterialID] += n.QtyPerItem * float64(qty)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for materialID, qty := range returns {
			if err := restore(tx, materialID, qty, "order delete", orderID, userID); err != nil {
				return err
			}
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, orderID).Error
	})
}
