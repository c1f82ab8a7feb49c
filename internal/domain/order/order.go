package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ircomercio/ordens/internal/domain/shared"
)

// Item represents a line item in an order. Items carry a 1-based
// contiguous Position that is renumbered whenever a line is removed.
type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IPI         string          `gorm:"type:varchar(20)"`
	ST          string          `gorm:"type:varchar(20)"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// DefaultUnit is used when a line is added without a unit of measure.
const DefaultUnit = "UN"

// NewItem creates a new blank line item at the given position with
// quantity 1 and the default unit.
func NewItem(orderID uuid.UUID, position int) *Item {
	now := time.Now()
	return &Item{
		ID:        uuid.New(),
		OrderID:   orderID,
		Position:  position,
		Quantity:  decimal.NewFromInt(1),
		Unit:      DefaultUnit,
		UnitPrice: decimal.Zero,
		LineTotal: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Recalculate derives the line total from quantity and unit price,
// rounded half up to centavos.
func (i *Item) Recalculate() {
	i.LineTotal = i.Quantity.Mul(i.UnitPrice).Round(2)
	i.UpdatedAt = time.Now()
}

// Update replaces the editable fields of the line and recalculates.
// Zero is a valid quantity (a zero line total stays zero); only
// negative values are clamped.
func (i *Item) Update(description string, quantity decimal.Decimal, unit string, unitPrice decimal.Decimal, ipi, st string) {
	if quantity.IsNegative() {
		quantity = decimal.Zero
	}
	if unit == "" {
		unit = DefaultUnit
	}
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}

	i.Description = description
	i.Quantity = quantity
	i.Unit = unit
	i.UnitPrice = unitPrice
	i.IPI = ipi
	i.ST = st
	i.Recalculate()
}

// SupplierInfo is the supplier snapshot embedded in an order. Orders
// keep their own copy so that later supplier edits never rewrite
// historical documents.
type SupplierInfo struct {
	SupplierID  *uuid.UUID `gorm:"type:uuid;index"`
	CompanyName string     `gorm:"type:varchar(200);not null"`
	TradeName   string     `gorm:"type:varchar(200)"`
	CNPJ        string     `gorm:"type:varchar(20)"`
	Address     string     `gorm:"type:varchar(300)"`
	Website     string     `gorm:"type:varchar(200)"`
	Contact     string     `gorm:"type:varchar(100)"`
	Phone       string     `gorm:"type:varchar(30)"`
	Email       string     `gorm:"type:varchar(200)"`
}

// Terms groups the delivery and payment conditions of an order.
type Terms struct {
	Freight          string `gorm:"type:varchar(100)"`
	DeliveryLocation string `gorm:"type:varchar(300)"`
	DeliveryTerm     string `gorm:"type:varchar(100)"`
	Transport        string `gorm:"type:varchar(100)"`
	PaymentMethod    string `gorm:"type:varchar(100)"`
	PaymentTerm      string `gorm:"type:varchar(100)"`
	BankDetails      string `gorm:"type:varchar(300)"`
}

// Order is the aggregate root for a purchase order. The sequential
// number is the human-facing identifier printed on documents; the UUID
// is the storage identity.
type Order struct {
	shared.BaseEntity
	SequentialNumber int             `gorm:"not null;index"`
	IssueDate        time.Time       `gorm:"type:date;not null;index"`
	Responsible      string          `gorm:"type:varchar(100);not null"`
	Supplier         SupplierInfo    `gorm:"embedded"`
	Items            []Item          `gorm:"foreignKey:OrderID;references:ID"`
	Terms            Terms           `gorm:"embedded"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status           Status          `gorm:"type:varchar(20);not null"`
	ClosedAt         *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the variant's open state
func NewOrder(variant Variant, sequentialNumber int, issueDate time.Time, responsible string, supplier SupplierInfo) (*Order, error) {
	if sequentialNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number must be positive")
	}
	if responsible == "" {
		return nil, shared.NewDomainError("INVALID_RESPONSIBLE", "Responsible cannot be empty")
	}
	if supplier.CompanyName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier company name cannot be empty")
	}

	return &Order{
		BaseEntity:       shared.NewBaseEntity(),
		SequentialNumber: sequentialNumber,
		IssueDate:        issueDate.Truncate(24 * time.Hour),
		Responsible:      responsible,
		Supplier:         supplier,
		Items:            make([]Item, 0),
		TotalAmount:      decimal.Zero,
		Status:           variant.OpenStatus(),
	}, nil
}

// AddItem appends a blank line at the next position. The returned
// pointer aims into the aggregate's slice and stays valid until the
// next append.
func (o *Order) AddItem() *Item {
	item := NewItem(o.ID, len(o.Items)+1)
	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()
	return &o.Items[len(o.Items)-1]
}

// RemoveItem removes the line at the given 1-based position and
// renumbers the remaining lines so positions stay contiguous.
func (o *Order) RemoveItem(position int) error {
	if position < 1 || position > len(o.Items) {
		return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("No item at position %d", position))
	}

	o.Items = append(o.Items[:position-1], o.Items[position:]...)
	o.renumberItems()
	o.RecalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// ReplaceItems swaps the full item list, renumbering and recalculating.
// Used when a form submission sends the complete set of lines.
func (o *Order) ReplaceItems(items []Item) {
	for idx := range items {
		if items[idx].ID == uuid.Nil {
			items[idx].ID = uuid.New()
			items[idx].CreatedAt = time.Now()
		}
		items[idx].OrderID = o.ID
		items[idx].Recalculate()
	}
	o.Items = items
	o.renumberItems()
	o.RecalculateTotals()
	o.UpdatedAt = time.Now()
}

func (o *Order) renumberItems() {
	for idx := range o.Items {
		o.Items[idx].Position = idx + 1
	}
}

// RecalculateTotals derives the order total as the sum of line totals
func (o *Order) RecalculateTotals() {
	total := decimal.Zero
	for idx := range o.Items {
		total = total.Add(o.Items[idx].LineTotal)
	}
	o.TotalAmount = total.Round(2)
}

// UpdateDetails replaces the header fields of the order
func (o *Order) UpdateDetails(issueDate time.Time, responsible string, supplier SupplierInfo, terms Terms) error {
	if responsible == "" {
		return shared.NewDomainError("INVALID_RESPONSIBLE", "Responsible cannot be empty")
	}
	if supplier.CompanyName == "" {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier company name cannot be empty")
	}

	o.IssueDate = issueDate.Truncate(24 * time.Hour)
	o.Responsible = responsible
	o.Supplier = supplier
	o.Terms = terms
	o.UpdatedAt = time.Now()
	return nil
}

// ToggleStatus flips the order between the variant's two states.
// Closing stamps ClosedAt; reopening clears it.
func (o *Order) ToggleStatus(variant Variant) error {
	next, ok := variant.Toggle(o.Status)
	if !ok {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Status %q does not belong to the %s vocabulary", o.Status, variant))
	}
	return o.SetStatus(variant, next)
}

// SetStatus moves the order to the given state within the variant's
// vocabulary. Setting the current state is a no-op.
func (o *Order) SetStatus(variant Variant, target Status) error {
	if !variant.ValidStatus(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Status %q does not belong to the %s vocabulary", target, variant))
	}
	if o.Status == target {
		return nil
	}

	now := time.Now()
	o.Status = target
	if target == variant.ClosedStatus() {
		o.ClosedAt = &now
	} else {
		o.ClosedAt = nil
	}
	o.UpdatedAt = now
	return nil
}

// IsClosed reports whether the order is in the variant's settled state
func (o *Order) IsClosed(variant Variant) bool {
	return o.Status == variant.ClosedStatus()
}
