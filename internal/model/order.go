package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus constants. DEBT means the order was delivered but payment is
// still outstanding, distinct from PENDING.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusDebt      = "debt"
)

// OrderStatus constants
const (
	OrderStatusActive    = "active"
	OrderStatusCancelled = "cancelled"
)

// PaymentMethod constants
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
)

// Order represents a sales order. Monetary fields are persisted snapshots:
// total_amount = subtotal + vat_amount + shipping_fee always holds and is
// re-derivable from the stored line items for auditing.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode     string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_code"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	Customer      *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	AgentID       *uuid.UUID      `gorm:"type:uuid;index" json:"agent_id"`
	Agent         *Agent          `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	VATRate       decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"vat_rate"` // fraction, e.g. 0.10
	VATAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"vat_amount"`
	ShippingFee   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"shipping_fee"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	Status        string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Note          string          `gorm:"type:text" json:"note"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	Creator       *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is one line within an Order. ProductName and UnitPrice are
// snapshots taken at order-creation time; later product edits do not touch them.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     Product         `gorm:"foreignKey:ProductID" json:"-"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`
}
