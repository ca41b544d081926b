package service

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
)

// BillLine pairs an order line with the catalog item it orders. Catalog may
// be nil when the item has since been removed from the catalog.
type BillLine struct {
	Item    entity.OrderItem
	Catalog *entity.CatalogItem
}

// BuildBill snapshots the party's contact details and the order lines
func BuildBill(party *entity.Party, lines []BillLine) entity.BillDetails {
	items := make([]entity.BillItem, 0, len(lines))
	for _, line := range lines {
		bi := entity.BillItem{
			Quantity:   line.Item.Quantity,
			UnitPrice:  line.Item.UnitPrice,
			TotalPrice: line.Item.TotalPrice,
			Type:       line.Item.ItemKind,
		}
		if line.Catalog != nil {
			bi.Name = line.Catalog.Name
			bi.SKU = line.Catalog.SKU
		}
		items = append(items, bi)
	}
	return entity.NewBillDetails(party, items)
}

// partyFromBill rebuilds the contact fields of a previous snapshot, used when
// the party row can no longer be read.
func partyFromBill(b entity.BillDetails) *entity.Party {
	return &entity.Party{
		Name:    b.PartyName,
		Phone:   &b.PartyPhone,
		Address: &b.PartyAddress,
		Email:   &b.PartyEmail,
	}
}

func (s *OrderService) billLines(ctx context.Context, items []entity.OrderItem) ([]BillLine, error) {
	lines := make([]BillLine, 0, len(items))
	for _, item := range items {
		catalog, err := s.catalogRepo.FindItem(ctx, item.Ref())
		if err != nil {
			return nil, err
		}
		lines = append(lines, BillLine{Item: item, Catalog: catalog})
	}
	return lines, nil
}
