package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable item. CurrentStock is never written directly by
// API consumers; it only moves through stock transactions and order
// creation/cancellation, so every change has a matching StockTransaction row.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index" json:"category_id"`
	Category       *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Unit           string          `gorm:"type:varchar(50);not null" json:"unit"` // pcs, box, kg...
	CurrentStock   int             `gorm:"type:int;default:0;not null" json:"current_stock"`
	MinStock       int             `gorm:"type:int;default:0;not null" json:"min_stock"`
	AvgImportPrice decimal.Decimal `gorm:"type:decimal(18,2);default:0;not null" json:"avg_import_price"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"selling_price"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
