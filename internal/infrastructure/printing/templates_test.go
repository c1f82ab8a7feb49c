package printing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderHTML(t *testing.T) {
	data := &OrderDocumentData{
		Title:       "ORDEM DE COMPRA",
		Number:      1251,
		IssueDate:   "15/03/2025",
		Responsible: "Maria",
		Status:      "aberta",
		CompanyName: "Distribuidora Alfa Ltda",
		CNPJ:        "12.345.678/0001-90",
		Items: []OrderDocumentItem{
			{Position: 1, Description: "Parafuso <aço>", Quantity: "10", Unit: "CX", UnitPriceFormatted: "R$ 2,50", TotalFormatted: "R$ 25,00"},
		},
		TotalFormatted: "R$ 25,00",
		Freight:        "CIF",
	}

	html, err := BuildOrderHTML(data)
	require.NoError(t, err)

	assert.Contains(t, html, "ORDEM DE COMPRA")
	assert.Contains(t, html, "Nº 1251")
	assert.Contains(t, html, "Distribuidora Alfa Ltda")
	assert.Contains(t, html, "R$ 25,00")
	assert.Contains(t, html, "CIF")
	// HTML metacharacters in descriptions must be escaped
	assert.NotContains(t, html, "<aço>")
	assert.Contains(t, html, "&lt;aço&gt;")
}

func TestBuildLabelsHTML(t *testing.T) {
	t.Run("one page per volume", func(t *testing.T) {
		data := &LabelSheetData{
			Title:       "ORDEM DE COMPRA",
			Number:      1251,
			CompanyName: "IR Comércio",
			Labels: []Label{
				{Index: 1, Total: 3},
				{Index: 2, Total: 3},
				{Index: 3, Total: 3},
			},
		}

		html, err := BuildLabelsHTML(data)
		require.NoError(t, err)

		assert.Equal(t, 3, strings.Count(html, `class="label"`))
		assert.Contains(t, html, "1/3")
		assert.Contains(t, html, "2/3")
		assert.Contains(t, html, "3/3")
	})

	t.Run("zero volumes rejected", func(t *testing.T) {
		_, err := BuildLabelsHTML(&LabelSheetData{Number: 1})
		assert.Error(t, err)
	})
}
