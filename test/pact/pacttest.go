//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "order-orchestrator-api"
	ConsumerName = "order-portal"

	StateProductInStock = "product 7 is in stock"
	StateOrderExists    = "order pact-order-1 exists for the pact user"
	StateOrderMissing   = "no order pact-order-404"
)

const (
	// BearerToken is accepted by the provider's stub authenticator for the owner below.
	BearerToken  = "pact-token"
	OwnerID      = "pact-user"
	OwnerContact = "pact.user@example.com"

	InStockProductID   int64 = 7
	InStockProductName       = "Pact Keyboard"
	InStockUnitPrice         = "49.50"

	ExistingOrderID = "pact-order-1"
	MissingOrderID  = "pact-order-404"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the order portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleAddress is the shipping address used by every interaction.
func ExampleAddress() map[string]any {
	return map[string]any{
		"street":  "1 Contract Way",
		"city":    "Springfield",
		"state":   "IL",
		"zip":     "62701",
		"country": "US",
	}
}

// ExampleCreateOrderPayload orders two units of the in-stock product.
func ExampleCreateOrderPayload() map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": InStockProductID, "quantity": 2},
		},
		"shippingAddress": ExampleAddress(),
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
