package models

import "time"

// CatalogItem 菜品
type CatalogItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// CatalogAddon 加料
type CatalogAddon struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CatalogAddon) TableName() string {
	return "catalog_addons"
}

// CatalogVariant 规格（大份、小份等）
type CatalogVariant struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RestaurantID uint      `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CatalogVariant) TableName() string {
	return "catalog_variants"
}
