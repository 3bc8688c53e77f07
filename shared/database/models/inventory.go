package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock transaction types. The ledger is append-only; on-hand quantity is a
// sum over transactions, never a stored counter.
const (
	TxnTypeReceipt    = "receipt"
	TxnTypeTransfer   = "transfer"
	TxnTypeAdjustment = "adjustment"
)

// TransactionTypes is the closed list accepted on ledger writes
var TransactionTypes = []string{
	TxnTypeReceipt,
	TxnTypeTransfer,
	TxnTypeAdjustment,
}

// InventoryItem is a stockable item owned by an organization
type InventoryItem struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	SKU            string    `json:"sku" gorm:"size:64;uniqueIndex;not null"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	Unit           string    `json:"unit" gorm:"size:30;default:'each'"`
	Description    *string   `json:"description" gorm:"type:text"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// InventoryLocation is a physical storage location
type InventoryLocation struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"size:200;not null"`
	Address        *string   `json:"address" gorm:"type:text"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (InventoryLocation) TableName() string {
	return "inventory_locations"
}

// StockTransaction is one immutable ledger entry. Receipts set ToLocationID,
// transfers set both locations, adjustments set ToLocationID with a signed
// quantity.
type StockTransaction struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID  uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID  `json:"item_id" gorm:"type:uuid;not null;index"`
	TransactionType string     `json:"transaction_type" gorm:"size:20;not null"`
	Quantity        int64      `json:"quantity" gorm:"not null"`
	FromLocationID  *uuid.UUID `json:"from_location_id" gorm:"type:uuid;index"`
	ToLocationID    *uuid.UUID `json:"to_location_id" gorm:"type:uuid;index"`
	Reason          *string    `json:"reason" gorm:"type:text"`
	RecordedBy      uuid.UUID  `json:"recorded_by" gorm:"type:uuid;not null"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime;index"`

	// Relations
	Item InventoryItem `json:"item" gorm:"foreignKey:ItemID"`
}

func (StockTransaction) TableName() string {
	return "stock_transactions"
}
