package document

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/domain/shared/valueobject"
	"github.com/ircomercio/ordens/internal/infrastructure/printing"
)

const documentTitle = "ORDEM DE COMPRA"

// printedDateLayout is the date format used on printed documents
const printedDateLayout = "02/01/2006"

// MaxVolumes bounds the label sheet size
const MaxVolumes = 100

// Service renders order documents and volume label sheets
type Service struct {
	repo        order.Repository
	renderer    printing.PDFRenderer
	companyName string
	logger      *zap.Logger
}

// NewService creates a new document service
func NewService(repo order.Repository, renderer printing.PDFRenderer, companyName string, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		renderer:    renderer,
		companyName: companyName,
		logger:      logger,
	}
}

// OrderPDF renders the full order document. Long item lists flow onto
// continuation pages with the table header repeated.
func (s *Service) OrderPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	html, err := printing.BuildOrderHTML(s.buildOrderData(o))
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:         html,
		MarginTop:    0.4,
		MarginRight:  0.4,
		MarginBottom: 0.4,
		MarginLeft:   0.4,
	})
	if err != nil {
		s.logger.Error("Order PDF rendering failed",
			zap.String("order_id", id.String()),
			zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}

// VolumeLabels renders one label page per volume, each stamped with
// its index over the total
func (s *Service) VolumeLabels(ctx context.Context, id uuid.UUID, volumes int) ([]byte, error) {
	if volumes < 1 || volumes > MaxVolumes {
		return nil, shared.NewDomainError("VALIDATION", "Volume count must be between 1 and 100")
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	labels := make([]printing.Label, volumes)
	for i := range labels {
		labels[i] = printing.Label{Index: i + 1, Total: volumes}
	}

	html, err := printing.BuildLabelsHTML(&printing.LabelSheetData{
		Title:       documentTitle,
		Number:      o.SequentialNumber,
		CompanyName: s.companyName,
		Labels:      labels,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:      html,
		Landscape: true,
	})
	if err != nil {
		s.logger.Error("Label rendering failed",
			zap.String("order_id", id.String()),
			zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}

func (s *Service) buildOrderData(o *order.Order) *printing.OrderDocumentData {
	items := make([]printing.OrderDocumentItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = printing.OrderDocumentItem{
			Position:           item.Position,
			Description:        item.Description,
			Quantity:           item.Quantity.String(),
			Unit:               item.Unit,
			UnitPriceFormatted: valueobject.FormatBRL(valueobject.NewMoney(item.UnitPrice)),
			IPI:                item.IPI,
			ST:                 item.ST,
			TotalFormatted:     valueobject.FormatBRL(valueobject.NewMoney(item.LineTotal)),
		}
	}

	return &printing.OrderDocumentData{
		Title:            documentTitle,
		Number:           o.SequentialNumber,
		IssueDate:        o.IssueDate.Format(printedDateLayout),
		Responsible:      o.Responsible,
		Status:           o.Status.String(),
		CompanyName:      o.Supplier.CompanyName,
		TradeName:        o.Supplier.TradeName,
		CNPJ:             o.Supplier.CNPJ,
		SupplierAddress:  o.Supplier.Address,
		Website:          o.Supplier.Website,
		Contact:          o.Supplier.Contact,
		Phone:            o.Supplier.Phone,
		Email:            o.Supplier.Email,
		Items:            items,
		TotalFormatted:   valueobject.FormatBRL(valueobject.NewMoney(o.TotalAmount)),
		Freight:          o.Terms.Freight,
		DeliveryLocation: o.Terms.DeliveryLocation,
		DeliveryTerm:     o.Terms.DeliveryTerm,
		Transport:        o.Terms.Transport,
		PaymentMethod:    o.Terms.PaymentMethod,
		PaymentTerm:      o.Terms.PaymentTerm,
		BankDetails:      o.Terms.BankDetails,
	}
}
