package partner

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/partner"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

// SupplierResponse is the wire representation of a catalog entry
type SupplierResponse struct {
	ID           string `json:"id"`
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	CNPJ         string `json:"cnpj"`
	Endereco     string `json:"endereco_fornecedor"`
	Site         string `json:"site"`
	Contato      string `json:"contato"`
	Telefone     string `json:"telefone"`
	Email        string `json:"email"`
}

// Service maintains the deduplicated supplier catalog
type Service struct {
	repo   partner.Repository
	logger *zap.Logger
}

// NewService creates a new supplier catalog service
func NewService(repo partner.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the catalog ordered by company name
func (s *Service) List(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		out[i] = SupplierResponse{
			ID:           sup.ID.String(),
			RazaoSocial:  sup.CompanyName,
			NomeFantasia: sup.TradeName,
			CNPJ:         sup.CNPJ,
			Endereco:     sup.Address,
			Site:         sup.Website,
			Contato:      sup.Contact,
			Telefone:     sup.Phone,
			Email:        sup.Email,
		}
	}
	return out, nil
}

// UpsertFromOrder records a supplier sighting from an order payload.
// Suppliers are keyed by normalized company name; repeated sightings
// merge contact details instead of creating duplicates.
func (s *Service) UpsertFromOrder(ctx context.Context, info order.SupplierInfo) (*partner.Supplier, error) {
	key := partner.NormalizeKey(info.CompanyName)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier company name cannot be empty")
	}

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		existing, err = partner.NewSupplier(info.CompanyName)
		if err != nil {
			return nil, err
		}
	}

	existing.MergeDetails(info.TradeName, info.CNPJ, info.Address, info.Website, info.Contact, info.Phone, info.Email)

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Debug("Supplier catalog updated", zap.String("key", key))
	return existing, nil
}
