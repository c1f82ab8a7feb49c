package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a BRL monetary amount.
// It is immutable - all operations return new Money instances.
// Amounts are kept as exact decimals; formatting to the localized
// "R$ 1.234,56" shape happens only at the presentation boundary via
// FormatBRL/ParseBRL.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// NewMoneyFromCents creates Money from an integer number of centavos
func NewMoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// NewMoneyFromString creates Money from a plain decimal string ("1234.56")
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d}, nil
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns a new Money with the difference
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul returns a new Money multiplied by the given factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Round returns a new Money rounded half-up to the specified decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places)}
}

// Equals returns true if both Money values are equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Cents returns the amount as an integer number of centavos (rounded half-up)
func (m Money) Cents() int64 {
	return m.amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}

// StringFixed returns the amount as a plain decimal string with 2 places
func (m Money) StringFixed() string {
	return m.amount.StringFixed(2)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String returns the localized display form
func (m Money) String() string {
	return FormatBRL(m)
}

// MarshalJSON implements json.Marshaler, emitting a plain decimal number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting a number or a
// localized string
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = ParseBRL(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid money value %q: %w", data, err)
	}
	m.amount = d
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		m.amount = decimal.NewFromFloat(v)
		return nil
	case int64:
		m.amount = decimal.NewFromInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	return nil
}

// FormatBRL renders Money in the Brazilian convention: "R$ 1.234,56".
// The integer part is grouped with "." every three digits and the
// fraction uses "," with exactly two digits.
func FormatBRL(m Money) string {
	fixed := m.amount.Round(2).StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sign, grouped.String(), fracPart)
}

// ParseBRL parses a localized monetary string back into Money. It accepts
// the exact output of FormatBRL and looser input with or without the
// currency symbol, thousands separators and spaces. Null, empty or
// unparseable input yields zero Money - parsing never fails.
func ParseBRL(s string) Money {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return Zero()
	}

	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero()
	}
	return Money{amount: d}
}
