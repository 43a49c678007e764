package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusReceived       OrderStatus = "received"
	StatusPaid           OrderStatus = "paid"
	StatusInProgress     OrderStatus = "in_progress"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusPickedUp       OrderStatus = "picked_up"
	StatusAbandoned      OrderStatus = "abandoned"
)

// OrderStatuses lists every status in lifecycle order
var OrderStatuses = []OrderStatus{
	StatusReceived,
	StatusPaid,
	StatusInProgress,
	StatusReadyForPickup,
	StatusPickedUp,
	StatusAbandoned,
}

// ActiveStatuses are the statuses shown on the board and counted in summaries
var ActiveStatuses = []OrderStatus{
	StatusReceived,
	StatusPaid,
	StatusInProgress,
	StatusReadyForPickup,
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order has left the active board
func (s OrderStatus) IsTerminal() bool {
	return s == StatusPickedUp || s == StatusAbandoned
}

// Order is a customer print job
type Order struct {
	ID          string      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	OrderNumber int64       `gorm:"not null;uniqueIndex" json:"order_number"`
	Status      OrderStatus `gorm:"type:text;not null;default:'received';index" json:"status"`

	// Customer
	CustomerFirstName string `gorm:"not null" json:"customer_first_name"`
	CustomerLastName  string `gorm:"not null" json:"customer_last_name"`
	CustomerPhone     string `gorm:"not null" json:"customer_phone"`
	CustomerEmail     string `gorm:"not null" json:"customer_email"`
	CustomerAddress   string `gorm:"not null" json:"customer_address"`

	// Job
	OrderDescription    string              `json:"order_description"`
	SpecialInstructions string              `json:"special_instructions"`
	Copies              int                 `gorm:"not null;default:1" json:"copies"`
	PaperSize           string              `json:"paper_size"`
	PaperType           string              `json:"paper_type"`
	ColorMode           string              `json:"color_mode"`
	DoubleSided         bool                `gorm:"not null;default:false" json:"double_sided"`
	BindingType         string              `json:"binding_type"`
	FinishingOptions    string              `json:"finishing_options"`
	RushOrder           bool                `gorm:"not null;default:false" json:"rush_order"`
	PrintReady          bool                `gorm:"not null;default:false" json:"print_ready"`
	EstimatedPrice      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"estimated_price"`
	FinalPrice          decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"final_price"`

	// Attachment
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`

	// Pickup, YYYY-MM-DD
	PickupDate string `gorm:"index" json:"pickup_date"`
	PickupTime string `json:"pickup_time"`

	Notes     string `json:"notes"`
	CreatedBy string `gorm:"not null;default:'public'" json:"created_by"`
}

// BeforeCreate hook to generate UUID
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// CustomerName returns "First Last"
func (o *Order) CustomerName() string {
	return o.CustomerFirstName + " " + o.CustomerLastName
}
