package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockTransactionType constants. Quantity is signed by type: import and
// upward adjustments are positive, export and downward adjustments negative.
const (
	StockTxImport     = "import"
	StockTxExport     = "export"
	StockTxAdjustment = "adjustment"
)

// StockTransaction is an append-only record of a change to a product's stock.
// stock_after = stock_before + quantity on every row. Corrections are new
// transactions, never edits.
type StockTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     Product         `gorm:"foreignKey:ProductID" json:"-"`
	OrderID     *uuid.UUID      `gorm:"type:uuid;index" json:"order_id"` // Nullable for manual operations
	Type        string          `gorm:"type:varchar(20);not null;index" json:"type"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"` // signed
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"unit_price"`
	StockBefore int             `gorm:"type:int;not null" json:"stock_before"`
	StockAfter  int             `gorm:"type:int;not null" json:"stock_after"`
	Note        string          `gorm:"type:text" json:"note"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}
