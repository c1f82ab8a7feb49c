package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/domain/shared/valueobject"
)

// wireDateLayout is the date-only format used on the wire
const wireDateLayout = "2006-01-02"

// ItemPayload is the wire representation of one order line.
// Quantities and unit prices travel as plain numbers; the derived line
// total travels as a localized string, matching the historical contract.
type ItemPayload struct {
	Item          int     `json:"item"`
	Especificacao string  `json:"especificacao"`
	Quantidade    float64 `json:"quantidade"`
	Unidade       string  `json:"unidade"`
	ValorUnitario float64 `json:"valorUnitario"`
	IPI           string  `json:"ipi"`
	ST            string  `json:"st"`
	ValorTotal    string  `json:"valorTotal"`
}

// OrderRequest is the payload for creating or replacing an order
type OrderRequest struct {
	NumeroOrdem        int           `json:"numero_ordem" binding:"required,gt=0"`
	Responsavel        string        `json:"responsavel" binding:"required"`
	DataOrdem          string        `json:"data_ordem" binding:"required,wiredate"`
	RazaoSocial        string        `json:"razao_social" binding:"required"`
	NomeFantasia       string        `json:"nome_fantasia"`
	CNPJ               string        `json:"cnpj"`
	EnderecoFornecedor string        `json:"endereco_fornecedor"`
	Site               string        `json:"site"`
	Contato            string        `json:"contato"`
	Telefone           string        `json:"telefone"`
	Email              string        `json:"email"`
	Items              []ItemPayload `json:"items"`
	Frete              string        `json:"frete"`
	LocalEntrega       string        `json:"local_entrega"`
	PrazoEntrega       string        `json:"prazo_entrega"`
	Transporte         string        `json:"transporte"`
	FormaPagamento     string        `json:"forma_pagamento"`
	PrazoPagamento     string        `json:"prazo_pagamento"`
	DadosBancarios     string        `json:"dados_bancarios"`
}

// OrderResponse is the wire representation of a full order
type OrderResponse struct {
	ID                 string        `json:"id"`
	NumeroOrdem        int           `json:"numero_ordem"`
	Responsavel        string        `json:"responsavel"`
	DataOrdem          string        `json:"data_ordem"`
	RazaoSocial        string        `json:"razao_social"`
	NomeFantasia       string        `json:"nome_fantasia"`
	CNPJ               string        `json:"cnpj"`
	EnderecoFornecedor string        `json:"endereco_fornecedor"`
	Site               string        `json:"site"`
	Contato            string        `json:"contato"`
	Telefone           string        `json:"telefone"`
	Email              string        `json:"email"`
	Items              []ItemPayload `json:"items"`
	ValorTotal         string        `json:"valor_total"`
	Frete              string        `json:"frete"`
	LocalEntrega       string        `json:"local_entrega"`
	PrazoEntrega       string        `json:"prazo_entrega"`
	Transporte         string        `json:"transporte"`
	FormaPagamento     string        `json:"forma_pagamento"`
	PrazoPagamento     string        `json:"prazo_pagamento"`
	DadosBancarios     string        `json:"dados_bancarios"`
	Status             string        `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
}

// StatusRequest is the payload for a status flip
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LastNumberResponse carries the highest sequential number ever issued
type LastNumberResponse struct {
	UltimoNumero int `json:"ultimoNumero"`
}

// supplierInfoFromRequest normalizes the supplier block of a request.
// Company names are stored uppercase, matching how documents print them.
func supplierInfoFromRequest(req *OrderRequest) order.SupplierInfo {
	return order.SupplierInfo{
		CompanyName: strings.ToUpper(strings.TrimSpace(req.RazaoSocial)),
		TradeName:   strings.TrimSpace(req.NomeFantasia),
		CNPJ:        strings.TrimSpace(req.CNPJ),
		Address:     strings.TrimSpace(req.EnderecoFornecedor),
		Website:     strings.TrimSpace(req.Site),
		Contact:     strings.TrimSpace(req.Contato),
		Phone:       strings.TrimSpace(req.Telefone),
		Email:       strings.TrimSpace(req.Email),
	}
}

// termsFromRequest maps the delivery and payment block of a request
func termsFromRequest(req *OrderRequest) order.Terms {
	return order.Terms{
		Freight:          strings.TrimSpace(req.Frete),
		DeliveryLocation: strings.TrimSpace(req.LocalEntrega),
		DeliveryTerm:     strings.TrimSpace(req.PrazoEntrega),
		Transport:        strings.TrimSpace(req.Transporte),
		PaymentMethod:    strings.TrimSpace(req.FormaPagamento),
		PaymentTerm:      strings.TrimSpace(req.PrazoPagamento),
		BankDetails:      strings.TrimSpace(req.DadosBancarios),
	}
}

// itemsFromRequest maps wire lines into domain items. Positions are
// reassigned by the aggregate, so the wire "item" field is advisory.
func itemsFromRequest(payloads []ItemPayload) []order.Item {
	items := make([]order.Item, 0, len(payloads))
	for _, p := range payloads {
		// Zero quantities are legitimate (a placeholder line totals
		// R$ 0,00); only negatives are clamped.
		quantity := decimal.NewFromFloat(p.Quantidade)
		if quantity.IsNegative() {
			quantity = decimal.Zero
		}
		unitPrice := decimal.NewFromFloat(p.ValorUnitario)
		if unitPrice.IsNegative() {
			unitPrice = decimal.Zero
		}
		unit := strings.TrimSpace(p.Unidade)
		if unit == "" {
			unit = order.DefaultUnit
		}

		items = append(items, order.Item{
			Description: strings.TrimSpace(p.Especificacao),
			Quantity:    quantity,
			Unit:        unit,
			UnitPrice:   unitPrice,
			IPI:         strings.TrimSpace(p.IPI),
			ST:          strings.TrimSpace(p.ST),
		})
	}
	return items
}

// parseWireDate parses the date-only wire format
func parseWireDate(s string) (time.Time, error) {
	d, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Order date must be in YYYY-MM-DD format")
	}
	return d, nil
}

// ToResponse converts a domain order into its wire representation
func ToResponse(o *order.Order) *OrderResponse {
	items := make([]ItemPayload, len(o.Items))
	for i, item := range o.Items {
		quantity, _ := item.Quantity.Float64()
		unitPrice, _ := item.UnitPrice.Float64()
		items[i] = ItemPayload{
			Item:          item.Position,
			Especificacao: item.Description,
			Quantidade:    quantity,
			Unidade:       item.Unit,
			ValorUnitario: unitPrice,
			IPI:           item.IPI,
			ST:            item.ST,
			ValorTotal:    valueobject.FormatBRL(valueobject.NewMoney(item.LineTotal)),
		}
	}

	return &OrderResponse{
		ID:                 o.ID.String(),
		NumeroOrdem:        o.SequentialNumber,
		Responsavel:        o.Responsible,
		DataOrdem:          o.IssueDate.Format(wireDateLayout),
		RazaoSocial:        o.Supplier.CompanyName,
		NomeFantasia:       o.Supplier.TradeName,
		CNPJ:               o.Supplier.CNPJ,
		EnderecoFornecedor: o.Supplier.Address,
		Site:               o.Supplier.Website,
		Contato:            o.Supplier.Contact,
		Telefone:           o.Supplier.Phone,
		Email:              o.Supplier.Email,
		Items:              items,
		ValorTotal:         valueobject.FormatBRL(valueobject.NewMoney(o.TotalAmount)),
		Frete:              o.Terms.Freight,
		LocalEntrega:       o.Terms.DeliveryLocation,
		PrazoEntrega:       o.Terms.DeliveryTerm,
		Transporte:         o.Terms.Transport,
		FormaPagamento:     o.Terms.PaymentMethod,
		PrazoPagamento:     o.Terms.PaymentTerm,
		DadosBancarios:     o.Terms.BankDetails,
		Status:             o.Status.String(),
		CreatedAt:          o.CreatedAt,
	}
}
