package models

// ProductMaterial: preset kalemi -> malzeme reçetesi.
// QtyPerItem bir adet ürünün tükettiği malzeme miktarıdır.
type ProductMaterial struct {
	ID                uint   `gorm:"primaryKey"`
	PresetCategory    string `gorm:"size:100;not null;index:idx_product_materials_preset,priority:1"`
	PresetDescription string `gorm:"size:150;not null;index:idx_product_materials_preset,priority:2"`
	MaterialID        uint   `gorm:"not null"`
	Material          Material
	QtyPerItem        float64 `gorm:"not null"`
}
