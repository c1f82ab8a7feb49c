package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromFloat(t *testing.T) {
	m := NewMoneyFromFloat(99.99)
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestNewMoneyFromCents(t *testing.T) {
	m := NewMoneyFromCents(123456)
	assert.Equal(t, "1234.56", m.StringFixed())
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyFromFloat(10.50)
	b := NewMoneyFromFloat(4.25)

	assert.Equal(t, "14.75", a.Add(b).StringFixed())
	assert.Equal(t, "6.25", a.Sub(b).StringFixed())
	assert.Equal(t, "21.00", a.Mul(decimal.NewFromInt(2)).StringFixed())
}

func TestMoneyRoundHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"rounds half up", 10.125, "10.13"},
		{"rounds down below half", 10.124, "10.12"},
		{"rounds up above half", 10.126, "10.13"},
		{"exact two places unchanged", 10.12, "10.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoneyFromFloat(tt.amount).Round(2)
			assert.Equal(t, tt.want, m.StringFixed())
		})
	}
}

func TestMoneyCents(t *testing.T) {
	assert.Equal(t, int64(123456), NewMoneyFromFloat(1234.56).Cents())
	assert.Equal(t, int64(1013), NewMoneyFromFloat(10.125).Cents())
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "R$ 0,00"},
		{"small amount", 5.5, "R$ 5,50"},
		{"hundreds", 150.75, "R$ 150,75"},
		{"thousands grouped", 1234.56, "R$ 1.234,56"},
		{"millions grouped", 1234567.89, "R$ 1.234.567,89"},
		{"exact thousand", 1000, "R$ 1.000,00"},
		{"negative", -1234.56, "R$ -1.234,56"},
		{"rounds before formatting", 10.125, "R$ 10,13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBRL(NewMoneyFromFloat(tt.amount)))
		})
	}
}

func TestParseBRL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted value", "R$ 1.234,56", "1234.56"},
		{"without symbol", "1.234,56", "1234.56"},
		{"without grouping", "1234,56", "1234.56"},
		{"millions", "R$ 1.234.567,89", "1234567.89"},
		{"no fraction", "R$ 150", "150.00"},
		{"negative", "R$ -1.234,56", "-1234.56"},
		{"extra spaces", "  R$  99,90  ", "99.90"},
		{"empty string", "", "0.00"},
		{"garbage", "abc", "0.00"},
		{"symbol only", "R$", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBRL(tt.input).StringFixed())
		})
	}
}

func TestBRLRoundTrip(t *testing.T) {
	amounts := []float64{0, 0.01, 5.5, 150.75, 1234.56, 999999.99, 1234567.89, -42.10}

	for _, amount := range amounts {
		m := NewMoneyFromFloat(amount).Round(2)
		got := ParseBRL(FormatBRL(m))
		assert.True(t, got.Equals(m), "round trip mismatch for %v: got %s", amount, got.StringFixed())
	}
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals as plain number", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyFromFloat(1234.56))
		require.NoError(t, err)
		assert.Equal(t, "1234.56", string(data))
	})

	t.Run("unmarshals from number", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte("1234.56"), &m))
		assert.Equal(t, "1234.56", m.StringFixed())
	})

	t.Run("unmarshals from localized string", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`"R$ 1.234,56"`), &m))
		assert.Equal(t, "1234.56", m.StringFixed())
	})
}

func TestMoneyValueScan(t *testing.T) {
	m := NewMoneyFromFloat(42.50)

	v, err := m.Value()
	require.NoError(t, err)

	var scanned Money
	require.NoError(t, scanned.Scan(v))
	assert.True(t, scanned.Equals(m))

	t.Run("scans nil as zero", func(t *testing.T) {
		var z Money
		require.NoError(t, z.Scan(nil))
		assert.True(t, z.IsZero())
	})

	t.Run("scans bytes", func(t *testing.T) {
		var b Money
		require.NoError(t, b.Scan([]byte("99.90")))
		assert.Equal(t, "99.90", b.StringFixed())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var x Money
		assert.Error(t, x.Scan(struct{}{}))
	})
}
