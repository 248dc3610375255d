package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a buying contact. TotalOrders and TotalAmount are
// denormalized aggregates over this customer's active orders, maintained inside
// the order transaction and recomputable from the order set.
type Customer struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string          `gorm:"type:varchar(50)" json:"phone"`
	Email       string          `gorm:"type:varchar(255)" json:"email"`
	Address     string          `gorm:"type:text" json:"address"`
	TaxCode     string          `gorm:"type:varchar(50)" json:"tax_code"`
	Note        string          `gorm:"type:text" json:"note"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	TotalOrders int             `gorm:"type:int;default:0;not null" json:"total_orders"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);default:0;not null" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
