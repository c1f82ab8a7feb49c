package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/infrastructure/config"
)

const defaultChromeTimeout = 30 * time.Second

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol
type ChromedpRenderer struct {
	defaultTimeout time.Duration
	logger         *zap.Logger
	allocCtx       context.Context
	allocCancel    context.CancelFunc
}

// NewChromedpRenderer creates a chromedp-based PDF renderer. The
// browser process is launched lazily on first render.
func NewChromedpRenderer(cfg config.PrintingConfig, logger *zap.Logger) *ChromedpRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.PageTimeout
	if timeout == 0 {
		timeout = defaultChromeTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		defaultTimeout: timeout,
		logger:         logger,
		allocCtx:       allocCtx,
		allocCancel:    allocCancel,
	}
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, fmt.Errorf("render request has no HTML content")
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.defaultTimeout
	}

	// The browser context must descend from the allocator, so the
	// timeout is layered on top of it rather than on the caller's ctx;
	// caller cancellation still propagates via AfterFunc.
	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()
	runCtx, runCancel := context.WithTimeout(browserCtx, timeout)
	defer runCancel()
	stop := context.AfterFunc(ctx, runCancel)
	defer stop()

	paperWidth := req.PaperWidth
	paperHeight := req.PaperHeight
	if paperWidth == 0 || paperHeight == 0 {
		paperWidth = A4WidthInches
		paperHeight = A4HeightInches
	}

	var pdfData []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, req.HTML).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(req.MarginTop).
				WithMarginRight(req.MarginRight).
				WithMarginBottom(req.MarginBottom).
				WithMarginLeft(req.MarginLeft).
				WithLandscape(req.Landscape).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("PDF rendering timed out after %v: %w", timeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("generated PDF is empty")
	}

	renderDuration := time.Since(startTime)
	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		RenderDuration: renderDuration,
	}, nil
}

// Close releases the browser allocator
func (r *ChromedpRenderer) Close() error {
	r.allocCancel()
	return nil
}
