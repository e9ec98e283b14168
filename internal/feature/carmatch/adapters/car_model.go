// Package adapters はcarmatchフィーチャーの在庫リポジトリ実装を提供します。
package adapters

import (
	"time"

	"carstock_backend/internal/feature/carmatch/domain/entity"
)

// CarModel はSQLストアの cars テーブルの行を表します。
type CarModel struct {
	ID          uint      `gorm:"primaryKey"`
	StockNumber string    `gorm:"size:50;not null;uniqueIndex"`
	Make        string    `gorm:"size:100;not null"`
	Model       string    `gorm:"size:100;not null"`
	Year        int       `gorm:"not null"`
	BodyStyle   string    `gorm:"size:50;not null;index"`
	Colour      string    `gorm:"size:50"`
	Price       int64     `gorm:"not null;default:0"`
	Odometer    int64     `gorm:"not null;default:0"`
	ImageURL    string    `gorm:"size:512"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName はMongoのコレクション名と揃えて cars を返します。
func (CarModel) TableName() string { return "cars" }

// ToRecord はレコードをフロントエンドが期待するキー名に変換します。
func (m CarModel) ToRecord() entity.InventoryRecord {
	return entity.InventoryRecord{
		"id":                  m.ID,
		"stockNumber":         m.StockNumber,
		"make":                m.Make,
		"model":               m.Model,
		"year":                m.Year,
		entity.BodyStyleField: m.BodyStyle,
		"colour":              m.Colour,
		"price":               m.Price,
		"odometer":            m.Odometer,
		"imageUrl":            m.ImageURL,
	}
}
