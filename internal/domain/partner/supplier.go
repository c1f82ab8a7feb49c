package partner

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ircomercio/ordens/internal/domain/shared"
)

// Supplier is the reusable supplier record behind the autocomplete
// catalog. Orders embed a snapshot of these fields; this entity is the
// deduplicated source the catalog serves.
type Supplier struct {
	shared.BaseEntity
	CompanyName string `gorm:"type:varchar(200);not null"`
	NameKey     string `gorm:"type:varchar(200);not null;uniqueIndex"`
	TradeName   string `gorm:"type:varchar(200)"`
	CNPJ        string `gorm:"type:varchar(20)"`
	Address     string `gorm:"type:varchar(300)"`
	Website     string `gorm:"type:varchar(200)"`
	Contact     string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(30)"`
	Email       string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a supplier keyed by its normalized company name
func NewSupplier(companyName string) (*Supplier, error) {
	key := NormalizeKey(companyName)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier company name cannot be empty")
	}

	return &Supplier{
		BaseEntity:  shared.NewBaseEntity(),
		CompanyName: strings.TrimSpace(companyName),
		NameKey:     key,
	}, nil
}

// MergeDetails fills in contact fields from a newer sighting of the
// supplier. Non-empty incoming values win; existing data is never
// blanked by an empty field.
func (s *Supplier) MergeDetails(tradeName, cnpj, address, website, contact, phone, email string) bool {
	changed := false
	merge := func(dst *string, src string) {
		src = strings.TrimSpace(src)
		if src != "" && *dst != src {
			*dst = src
			changed = true
		}
	}

	merge(&s.TradeName, tradeName)
	merge(&s.CNPJ, cnpj)
	merge(&s.Address, address)
	merge(&s.Website, website)
	merge(&s.Contact, contact)
	merge(&s.Phone, phone)
	merge(&s.Email, email)

	if changed {
		s.UpdatedAt = time.Now()
	}
	return changed
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeKey derives the dedup key for a supplier name: trimmed,
// uppercased, diacritics stripped and inner whitespace collapsed, so
// "Fornecedor Ação" and "FORNECEDOR ACAO " collide.
func NormalizeKey(name string) string {
	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		stripped = name
	}
	return strings.ToUpper(strings.Join(strings.Fields(stripped), " "))
}
