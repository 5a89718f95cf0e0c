package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	types "github.com/Apurer/order-orchestrator/internal/domains/orders/application/types"
)

type normalizedCreateOrderInput struct {
	OwnerID         string            `json:"ownerId"`
	Items           []normalizedLine  `json:"items"`
	ShippingAddress normalizedAddress `json:"shippingAddress"`
}

type normalizedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type normalizedAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// FingerprintCreateOrder builds a deterministic hash of the create payload (excluding the idempotency key).
func FingerprintCreateOrder(input types.CreateOrderInput) (string, error) {
	payload, err := json.Marshal(normalizeCreateOrderInput(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeCreateOrderInput(input types.CreateOrderInput) normalizedCreateOrderInput {
	lines := make([]normalizedLine, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, normalizedLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	address := input.ShippingAddress
	return normalizedCreateOrderInput{
		OwnerID: input.Owner.ID,
		Items:   lines,
		ShippingAddress: normalizedAddress{
			Street:  strings.TrimSpace(address.Street),
			City:    strings.TrimSpace(address.City),
			State:   strings.TrimSpace(address.State),
			Zip:     strings.TrimSpace(address.Zip),
			Country: strings.TrimSpace(address.Country),
		},
	}
}
