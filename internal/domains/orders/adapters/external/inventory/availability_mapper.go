package inventory

import (
	inventoryclient "github.com/Apurer/order-orchestrator/internal/clients/http/inventory"
	"github.com/Apurer/order-orchestrator/internal/domains/orders/ports"
)

// ToLineAvailability converts the remote answer. A product without a price cannot be sold.
func ToLineAvailability(product inventoryclient.ProductAvailability) ports.LineAvailability {
	out := ports.LineAvailability{
		Available: product.Available && product.Price.Valid,
		Stock:     product.Stock,
	}
	if out.Stock < 0 {
		out.Stock = 0
	}
	if product.Name != nil {
		out.UnitName = *product.Name
	}
	if product.Price.Valid {
		out.UnitPrice = product.Price.Decimal
	}
	return out
}
