package printing

import (
	"bytes"
	"fmt"
	"html/template"
)

// OrderDocumentData is the view model for the order PDF
type OrderDocumentData struct {
	Title            string
	Number           int
	IssueDate        string
	Responsible      string
	Status           string
	CompanyName      string
	TradeName        string
	CNPJ             string
	SupplierAddress  string
	Website          string
	Contact          string
	Phone            string
	Email            string
	Items            []OrderDocumentItem
	TotalFormatted   string
	Freight          string
	DeliveryLocation string
	DeliveryTerm     string
	Transport        string
	PaymentMethod    string
	PaymentTerm      string
	BankDetails      string
}

// OrderDocumentItem is one printed line of the items table
type OrderDocumentItem struct {
	Position           int
	Description        string
	Quantity           string
	Unit               string
	UnitPriceFormatted string
	IPI                string
	ST                 string
	TotalFormatted     string
}

// LabelSheetData is the view model for the volume label sheet.
// One label page is emitted per volume, stamped "i/total".
type LabelSheetData struct {
	Title       string
	Number      int
	CompanyName string
	Labels      []Label
}

// Label is one page of the label sheet
type Label struct {
	Index int
	Total int
}

var orderTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #111; margin: 0; }
  h1 { font-size: 16px; margin: 0 0 2px 0; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #111; padding-bottom: 8px; }
  .meta { text-align: right; font-size: 12px; }
  .block { margin-top: 10px; }
  .block h2 { font-size: 12px; text-transform: uppercase; border-bottom: 1px solid #999; padding-bottom: 2px; margin: 0 0 4px 0; }
  table.items { width: 100%; border-collapse: collapse; margin-top: 4px; }
  table.items th { background: #eee; border: 1px solid #999; padding: 4px; font-size: 10px; text-transform: uppercase; }
  table.items td { border: 1px solid #999; padding: 4px; vertical-align: top; min-height: 14px; }
  table.items tr { page-break-inside: avoid; }
  thead { display: table-header-group; }
  td.num { text-align: right; white-space: nowrap; }
  .total-row td { font-weight: bold; background: #f5f5f5; }
  .terms td { padding: 2px 8px 2px 0; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{.Title}}</h1>
    <div>Responsável: {{.Responsible}}</div>
  </div>
  <div class="meta">
    <div><strong>Nº {{.Number}}</strong></div>
    <div>{{.IssueDate}}</div>
    <div>{{.Status}}</div>
  </div>
</div>

<div class="block">
  <h2>Fornecedor</h2>
  <div><strong>{{.CompanyName}}</strong>{{if .TradeName}} ({{.TradeName}}){{end}}</div>
  {{if .CNPJ}}<div>CNPJ: {{.CNPJ}}</div>{{end}}
  {{if .SupplierAddress}}<div>{{.SupplierAddress}}</div>{{end}}
  {{if .Contact}}<div>Contato: {{.Contact}}{{if .Phone}} / {{.Phone}}{{end}}</div>{{else if .Phone}}<div>Telefone: {{.Phone}}</div>{{end}}
  {{if .Email}}<div>{{.Email}}</div>{{end}}
  {{if .Website}}<div>{{.Website}}</div>{{end}}
</div>

<div class="block">
  <h2>Itens</h2>
  <table class="items">
    <thead>
      <tr>
        <th>Item</th><th>Especificação</th><th>Qtde</th><th>Unid.</th>
        <th>Valor Unit.</th><th>IPI</th><th>ST</th><th>Valor Total</th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td class="num">{{.Position}}</td>
        <td>{{.Description}}</td>
        <td class="num">{{.Quantity}}</td>
        <td>{{.Unit}}</td>
        <td class="num">{{.UnitPriceFormatted}}</td>
        <td class="num">{{.IPI}}</td>
        <td class="num">{{.ST}}</td>
        <td class="num">{{.TotalFormatted}}</td>
      </tr>
      {{end}}
      <tr class="total-row">
        <td colspan="7">TOTAL</td>
        <td class="num">{{.TotalFormatted}}</td>
      </tr>
    </tbody>
  </table>
</div>

<div class="block">
  <h2>Condições</h2>
  <table class="terms">
    {{if .Freight}}<tr><td>Frete:</td><td>{{.Freight}}</td></tr>{{end}}
    {{if .DeliveryLocation}}<tr><td>Local de Entrega:</td><td>{{.DeliveryLocation}}</td></tr>{{end}}
    {{if .DeliveryTerm}}<tr><td>Prazo de Entrega:</td><td>{{.DeliveryTerm}}</td></tr>{{end}}
    {{if .Transport}}<tr><td>Transporte:</td><td>{{.Transport}}</td></tr>{{end}}
    {{if .PaymentMethod}}<tr><td>Forma de Pagamento:</td><td>{{.PaymentMethod}}</td></tr>{{end}}
    {{if .PaymentTerm}}<tr><td>Prazo de Pagamento:</td><td>{{.PaymentTerm}}</td></tr>{{end}}
    {{if .BankDetails}}<tr><td>Dados Bancários:</td><td>{{.BankDetails}}</td></tr>{{end}}
  </table>
</div>
</body>
</html>`))

var labelTemplate = template.Must(template.New("labels").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 0; }
  .label { height: 95vh; display: flex; flex-direction: column; justify-content: center; align-items: center; page-break-after: always; }
  .label:last-child { page-break-after: avoid; }
  .company { font-size: 28px; font-weight: bold; text-transform: uppercase; }
  .order { font-size: 22px; margin-top: 16px; }
  .volume { font-size: 48px; font-weight: bold; margin-top: 32px; border: 4px solid #111; padding: 16px 48px; }
</style>
</head>
<body>
{{$d := .}}
{{range .Labels}}
<div class="label">
  <div class="company">{{$d.CompanyName}}</div>
  <div class="order">{{$d.Title}} Nº {{$d.Number}}</div>
  <div class="volume">{{.Index}}/{{.Total}}</div>
</div>
{{end}}
</body>
</html>`))

// BuildOrderHTML renders the order document template
func BuildOrderHTML(data *OrderDocumentData) (string, error) {
	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute order template: %w", err)
	}
	return buf.String(), nil
}

// BuildLabelsHTML renders the volume label sheet template
func BuildLabelsHTML(data *LabelSheetData) (string, error) {
	if len(data.Labels) == 0 {
		return "", fmt.Errorf("label sheet needs at least one volume")
	}
	var buf bytes.Buffer
	if err := labelTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute label template: %w", err)
	}
	return buf.String(), nil
}
