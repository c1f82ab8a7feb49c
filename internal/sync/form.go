package sync

import (
	"strings"

	"github.com/shopspring/decimal"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/domain/shared/valueobject"
)

// FormLine is one editable item row. Numeric fields stay strings until
// submission so partially typed values never break editing; parsing is
// permissive and unparseable input counts as zero.
type FormLine struct {
	Position      int
	Especificacao string
	Quantidade    string
	Unidade       string
	ValorUnitario string
	IPI           string
	ST            string
	LineTotal     valueobject.Money
}

// FormMeta carries the non-item fields of the order form
type FormMeta struct {
	NumeroOrdem        int
	Responsavel        string
	DataOrdem          string
	RazaoSocial        string
	NomeFantasia       string
	CNPJ               string
	EnderecoFornecedor string
	Site               string
	Contato            string
	Telefone           string
	Email              string
	Frete              string
	LocalEntrega       string
	PrazoEntrega       string
	Transporte         string
	FormaPagamento     string
	PrazoPagamento     string
	DadosBancarios     string
}

// FormAggregator accumulates the item rows of an order being edited and
// derives line and grand totals as rows change
type FormAggregator struct {
	lines []FormLine
}

// NewFormAggregator creates an aggregator with a single blank row
func NewFormAggregator() *FormAggregator {
	f := &FormAggregator{}
	f.AddItem()
	return f
}

// AddItem appends a blank row with quantity one and the default unit
func (f *FormAggregator) AddItem() *FormLine {
	f.lines = append(f.lines, FormLine{
		Position:   len(f.lines) + 1,
		Quantidade: "1",
		Unidade:    order.DefaultUnit,
	})
	return &f.lines[len(f.lines)-1]
}

// RemoveItem deletes the row at the 1-based position and renumbers the
// remainder contiguously. Removing the last row leaves the form empty;
// no row is re-added automatically.
func (f *FormAggregator) RemoveItem(position int) error {
	if position < 1 || position > len(f.lines) {
		return shared.NewDomainError("ITEM_NOT_FOUND", "No item at the given position")
	}
	f.lines = append(f.lines[:position-1], f.lines[position:]...)
	for i := range f.lines {
		f.lines[i].Position = i + 1
	}
	return nil
}

// UpdateLine rewrites the editable fields of one row and recalculates
// its total
func (f *FormAggregator) UpdateLine(position int, especificacao, quantidade, unidade, valorUnitario, ipi, st string) error {
	if position < 1 || position > len(f.lines) {
		return shared.NewDomainError("ITEM_NOT_FOUND", "No item at the given position")
	}
	line := &f.lines[position-1]
	line.Especificacao = especificacao
	line.Quantidade = quantidade
	line.Unidade = unidade
	line.ValorUnitario = valorUnitario
	line.IPI = ipi
	line.ST = st
	f.RecalculateLine(position)
	return nil
}

// parseQuantity reads a typed quantity. Quantities are plain numbers,
// not currency, so both "1.5" and "1,5" mean one and a half; anything
// unparseable or negative counts as zero.
func parseQuantity(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// RecalculateLine re-derives one row's total from its current fields
func (f *FormAggregator) RecalculateLine(position int) valueobject.Money {
	if position < 1 || position > len(f.lines) {
		return valueobject.Zero()
	}
	line := &f.lines[position-1]
	price := valueobject.ParseBRL(line.ValorUnitario)
	line.LineTotal = price.Mul(parseQuantity(line.Quantidade)).Round(2)
	return line.LineTotal
}

// Total sums all line totals
func (f *FormAggregator) Total() valueobject.Money {
	total := valueobject.Zero()
	for i := range f.lines {
		total = total.Add(f.lines[i].LineTotal)
	}
	return total
}

// Lines returns a copy of the current rows
func (f *FormAggregator) Lines() []FormLine {
	out := make([]FormLine, len(f.lines))
	copy(out, f.lines)
	return out
}

// Len returns the number of rows
func (f *FormAggregator) Len() int {
	return len(f.lines)
}

// BuildPayload assembles the submission payload. Validation runs before
// anything touches the network: the sequential number, responsible and
// company name are always required, and the purchasing flavor also
// demands a delivery location and payment method. Company names are
// uppercased on the way out.
func (f *FormAggregator) BuildPayload(variant order.Variant, meta FormMeta) (*orderapp.OrderRequest, error) {
	if meta.NumeroOrdem <= 0 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number must be positive")
	}
	if strings.TrimSpace(meta.Responsavel) == "" {
		return nil, shared.NewDomainError("INVALID_RESPONSIBLE", "Responsible is required")
	}
	if strings.TrimSpace(meta.RazaoSocial) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier company name is required")
	}
	if strings.TrimSpace(meta.DataOrdem) == "" {
		return nil, shared.NewDomainError("INVALID_DATE", "Order date is required")
	}
	if variant.RequiresDeliveryFields() {
		if strings.TrimSpace(meta.LocalEntrega) == "" {
			return nil, shared.NewDomainError("VALIDATION", "Delivery location is required")
		}
		if strings.TrimSpace(meta.FormaPagamento) == "" {
			return nil, shared.NewDomainError("VALIDATION", "Payment method is required")
		}
	}

	items := make([]orderapp.ItemPayload, 0, len(f.lines))
	for i := range f.lines {
		line := &f.lines[i]
		f.RecalculateLine(line.Position)

		qty, _ := parseQuantity(line.Quantidade).Float64()
		price := valueobject.ParseBRL(line.ValorUnitario).Float64()
		items = append(items, orderapp.ItemPayload{
			Item:          line.Position,
			Especificacao: strings.TrimSpace(line.Especificacao),
			Quantidade:    qty,
			Unidade:       strings.TrimSpace(line.Unidade),
			ValorUnitario: price,
			IPI:           strings.TrimSpace(line.IPI),
			ST:            strings.TrimSpace(line.ST),
			ValorTotal:    valueobject.FormatBRL(line.LineTotal),
		})
	}

	return &orderapp.OrderRequest{
		NumeroOrdem:        meta.NumeroOrdem,
		Responsavel:        strings.TrimSpace(meta.Responsavel),
		DataOrdem:          strings.TrimSpace(meta.DataOrdem),
		RazaoSocial:        strings.ToUpper(strings.TrimSpace(meta.RazaoSocial)),
		NomeFantasia:       strings.TrimSpace(meta.NomeFantasia),
		CNPJ:               strings.TrimSpace(meta.CNPJ),
		EnderecoFornecedor: strings.TrimSpace(meta.EnderecoFornecedor),
		Site:               strings.TrimSpace(meta.Site),
		Contato:            strings.TrimSpace(meta.Contato),
		Telefone:           strings.TrimSpace(meta.Telefone),
		Email:              strings.TrimSpace(meta.Email),
		Items:              items,
		Frete:              strings.TrimSpace(meta.Frete),
		LocalEntrega:       strings.TrimSpace(meta.LocalEntrega),
		PrazoEntrega:       strings.TrimSpace(meta.PrazoEntrega),
		Transporte:         strings.TrimSpace(meta.Transporte),
		FormaPagamento:     strings.TrimSpace(meta.FormaPagamento),
		PrazoPagamento:     strings.TrimSpace(meta.PrazoPagamento),
		DadosBancarios:     strings.TrimSpace(meta.DadosBancarios),
	}, nil
}
