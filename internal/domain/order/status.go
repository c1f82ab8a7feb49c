package order

// Status represents the lifecycle state of an order. Each deployment
// variant uses exactly two states: an open state where the order is
// editable and a closed state where it is settled.
type Status string

const (
	StatusOpen    Status = "aberta"
	StatusClosed  Status = "fechada"
	StatusPending Status = "pendente"
	StatusIssued  Status = "emitida"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Variant selects the deployment flavor. Both share the same order
// shape; they differ in status vocabulary and which form fields are
// mandatory.
type Variant string

const (
	VariantPurchasing Variant = "compras"
	VariantTenders    Variant = "licitacoes"
)

// IsValid checks if the variant is a known deployment flavor
func (v Variant) IsValid() bool {
	return v == VariantPurchasing || v == VariantTenders
}

// OpenStatus returns the editable state for this variant
func (v Variant) OpenStatus() Status {
	if v == VariantTenders {
		return StatusPending
	}
	return StatusOpen
}

// ClosedStatus returns the settled state for this variant
func (v Variant) ClosedStatus() Status {
	if v == VariantTenders {
		return StatusIssued
	}
	return StatusClosed
}

// ValidStatus checks if the status belongs to this variant's vocabulary
func (v Variant) ValidStatus(s Status) bool {
	return s == v.OpenStatus() || s == v.ClosedStatus()
}

// Toggle returns the opposite state within this variant's vocabulary
func (v Variant) Toggle(s Status) (Status, bool) {
	switch s {
	case v.OpenStatus():
		return v.ClosedStatus(), true
	case v.ClosedStatus():
		return v.OpenStatus(), true
	}
	return s, false
}

// RequiresDeliveryFields reports whether delivery and payment terms are
// mandatory when submitting an order. The tenders flavor issues orders
// before logistics are settled, so they stay optional there.
func (v Variant) RequiresDeliveryFields() bool {
	return v == VariantPurchasing
}
