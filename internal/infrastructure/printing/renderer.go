// Package printing renders order documents to PDF via headless Chrome.
// Layout lives in HTML templates; Chrome's print pipeline handles
// pagination so multi-page orders break cleanly between items.
package printing

import (
	"context"
	"time"
)

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Landscape orientation (default portrait)
	Landscape bool
	// Paper dimensions in inches. Zero values fall back to A4.
	PaperWidth  float64
	PaperHeight float64
	// Margins in inches
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// A4 paper dimensions in inches
const (
	A4WidthInches  = 8.27
	A4HeightInches = 11.69
)
