package models

type PresetCategory struct {
	ID       uint   `gorm:"primaryKey"`
	Category string `gorm:"size:100;not null;unique"`
	Color    string `gorm:"size:10;not null"`
}

type PresetItem struct {
	ID          uint    `gorm:"primaryKey"`
	CategoryID  uint    `gorm:"not null;uniqueIndex:idx_preset_items_cat_desc,priority:1"`
	Description string  `gorm:"size:150;not null;uniqueIndex:idx_preset_items_cat_desc,priority:2"`
	Price       float64 `gorm:"not null"`
}

type PresetExtra struct {
	ID         uint    `gorm:"primaryKey"`
	CategoryID uint    `gorm:"index;not null"`
	Name       string  `gorm:"size:150;not null"`
	Price      float64 `gorm:"not null"`
	Type       string  `gorm:"size:20;not null"` // "checkbox" / "number"
	Unit       string  `gorm:"size:20"`
}
