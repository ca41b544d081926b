package service

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Price sources reported in a PriceQuote
const (
	PriceSourceParty = "party_price"
	PriceSourceCost  = "cost_price"
)

var hundred = decimal.NewFromInt(100)

// PriceQuote is the unit price a party pays for an item
type PriceQuote struct {
	Item      *entity.CatalogItem `json:"item"`
	PartyID   uuid.UUID           `json:"party_id"`
	UnitPrice decimal.Decimal     `json:"unit_price"`
	Source    string              `json:"source"`
}

// PriceResolver supplies unit prices for lines that arrive without one
type PriceResolver interface {
	ResolvePrice(ctx context.Context, partyID uuid.UUID, ref entity.ItemRef) (*PriceQuote, error)
}

// PricingService resolves effective prices from party overrides and the catalog
type PricingService struct {
	catalogRepo   repository.CatalogRepository
	priceListRepo repository.PriceListRepository
}

// NewPricingService creates a new pricing service
func NewPricingService(catalogRepo repository.CatalogRepository, priceListRepo repository.PriceListRepository) *PricingService {
	return &PricingService{
		catalogRepo:   catalogRepo,
		priceListRepo: priceListRepo,
	}
}

// ResolvePrice returns the party's override for the item, falling back to the
// item's cost price.
func (s *PricingService) ResolvePrice(ctx context.Context, partyID uuid.UUID, ref entity.ItemRef) (*PriceQuote, error) {
	item, err := s.catalogRepo.FindItem(ctx, ref)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	quote := &PriceQuote{Item: item, PartyID: partyID, UnitPrice: item.CostPrice, Source: PriceSourceCost}

	override, err := s.priceListRepo.Find(ctx, partyID, ref)
	if err != nil {
		return nil, err
	}
	if override != nil {
		quote.UnitPrice = override.Price
		quote.Source = PriceSourceParty
	}
	return quote, nil
}

// ApplyGST adds GST at rate percent to subtotal and rounds to cents
func ApplyGST(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred))).Round(2)
}

// Subtotal sums the line totals of items
func Subtotal(items []entity.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}
	return sum
}
