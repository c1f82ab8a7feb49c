package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

// Service handles order business operations
type Service struct {
	repo      order.Repository
	suppliers *partnerapp.Service
	variant   order.Variant
	logger    *zap.Logger
}

// NewService creates a new order service
func NewService(repo order.Repository, suppliers *partnerapp.Service, variant order.Variant, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		suppliers: suppliers,
		variant:   variant,
		logger:    logger,
	}
}

// Create validates and persists a new order, then records the supplier
// in the catalog. The sequential number is advisory: a duplicate is
// logged but not rejected, preserving the historical behavior where
// concurrent editors could race on the same suggestion.
func (s *Service) Create(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	issueDate, err := parseWireDate(req.DataOrdem)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequired(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsSequentialNumber(ctx, req.NumeroOrdem)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.Warn("Sequential number already in use",
			zap.Int("sequential_number", req.NumeroOrdem))
	}

	supplier := supplierInfoFromRequest(req)
	o, err := order.NewOrder(s.variant, req.NumeroOrdem, issueDate, req.Responsavel, supplier)
	if err != nil {
		return nil, err
	}
	o.Terms = termsFromRequest(req)
	o.ReplaceItems(itemsFromRequest(req.Items))

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.upsertSupplier(ctx, o)

	s.logger.Info("Order created",
		zap.String("id", o.ID.String()),
		zap.Int("sequential_number", o.SequentialNumber))
	return ToResponse(o), nil
}

// Update replaces an existing order's header, terms and items
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *OrderRequest) (*OrderResponse, error) {
	issueDate, err := parseWireDate(req.DataOrdem)
	if err != nil {
		return nil, err
	}
	if err := s.validateRequired(req); err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NumeroOrdem != o.SequentialNumber {
		exists, err := s.repo.ExistsSequentialNumber(ctx, req.NumeroOrdem)
		if err != nil {
			return nil, err
		}
		if exists {
			s.logger.Warn("Sequential number already in use",
				zap.Int("sequential_number", req.NumeroOrdem))
		}
		o.SequentialNumber = req.NumeroOrdem
	}

	if err := o.UpdateDetails(issueDate, req.Responsavel, supplierInfoFromRequest(req), termsFromRequest(req)); err != nil {
		return nil, err
	}
	o.ReplaceItems(itemsFromRequest(req.Items))

	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.upsertSupplier(ctx, o)

	return ToResponse(o), nil
}

// Delete removes an order
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Order deleted", zap.String("id", id.String()))
	return nil
}

// GetByID loads a single order
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(o), nil
}

// ListByMonth returns all orders issued within the given calendar month
func (s *Service) ListByMonth(ctx context.Context, month time.Month, year int) ([]*OrderResponse, error) {
	orders, err := s.repo.FindByMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}

	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToResponse(o)
	}
	return out, nil
}

// LastNumber returns the highest sequential number ever issued, zero on
// an empty table. Seeding the first suggestion is the caller's concern;
// the tracker falls back to its configured seed when nothing was issued.
func (s *Service) LastNumber(ctx context.Context) (*LastNumberResponse, error) {
	max, err := s.repo.MaxSequentialNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &LastNumberResponse{UltimoNumero: max}, nil
}

// ToggleStatus moves an order to the requested state within the
// variant's vocabulary. A rejected transition leaves stored state
// untouched.
func (s *Service) ToggleStatus(ctx context.Context, id uuid.UUID, target string) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.SetStatus(s.variant, order.Status(target)); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, o.ID, o.Status, o.ClosedAt); err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("id", o.ID.String()),
		zap.String("status", o.Status.String()))
	return ToResponse(o), nil
}

// validateRequired enforces the variant's mandatory form fields
func (s *Service) validateRequired(req *OrderRequest) error {
	if !s.variant.RequiresDeliveryFields() {
		return nil
	}
	if req.LocalEntrega == "" {
		return shared.NewDomainError("VALIDATION", "Local de entrega is required")
	}
	if req.FormaPagamento == "" {
		return shared.NewDomainError("VALIDATION", "Forma de pagamento is required")
	}
	return nil
}

// upsertSupplier records the supplier sighting; failures are logged,
// never surfaced, because the order itself already saved.
func (s *Service) upsertSupplier(ctx context.Context, o *order.Order) {
	if _, err := s.suppliers.UpsertFromOrder(ctx, o.Supplier); err != nil {
		s.logger.Warn("Supplier catalog upsert failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
}
