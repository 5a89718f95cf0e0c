//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/order-orchestrator/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	OrderID     string        `json:"orderId"`
	Items       []linePayload `json:"items"`
	TotalAmount json.Number   `json:"totalAmount"`
	Status      string        `json:"status"`
}

type linePayload struct {
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unitPrice"`
	LineTotal   json.Number `json:"lineTotal"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestOrderPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	authorization := matchers.S("Bearer " + pacttest.BearerToken)
	addressMatcher := matchers.Map{
		"street":  matchers.Like("1 Contract Way"),
		"city":    matchers.Like("Springfield"),
		"state":   matchers.Like("IL"),
		"zip":     matchers.Like("62701"),
		"country": matchers.Like("US"),
	}
	orderMatcher := func(status string) matchers.Map {
		return matchers.Map{
			"orderId": matchers.Like(pacttest.ExistingOrderID),
			"items": matchers.EachLike(matchers.Map{
				"productId":   matchers.Like(pacttest.InStockProductID),
				"productName": matchers.Like(pacttest.InStockProductName),
				"quantity":    matchers.Like(2),
				"unitPrice":   matchers.Like(49.5),
				"lineTotal":   matchers.Like(99.0),
			}, 1),
			"totalAmount":     matchers.Like(99.0),
			"status":          matchers.Term(status, "pending|confirmed|processing|shipped|delivered|cancelled"),
			"shippingAddress": addressMatcher,
			"createdAt":       matchers.Like("2024-06-12T10:00:00Z"),
			"updatedAt":       matchers.Like("2024-06-12T10:00:00Z"),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateProductInStock).
		UponReceiving("a request to create an order").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", authorization)
			b.JSONBody(pacttest.ExampleCreateOrderPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("pending"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", "/v1/orders/"+pacttest.ExistingOrderID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", authorization)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("pending"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to ship an existing order").
		WithRequest("PATCH", "/v1/orders/"+pacttest.ExistingOrderID+"/status", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", authorization)
			b.JSONBody(map[string]any{"status": "shipped"})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderMatcher("shipped"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", "/v1/orders/"+pacttest.MissingOrderID, func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", authorization)
		}).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.CreateOrder(ctx, pacttest.ExampleCreateOrderPayload())
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created.OrderID == "" || len(created.Items) == 0 {
			return fmt.Errorf("expected a priced order, got %+v", created)
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched.OrderID != pacttest.ExistingOrderID {
			return fmt.Errorf("expected order %s, got %+v", pacttest.ExistingOrderID, fetched)
		}

		shipped, err := client.UpdateStatus(ctx, pacttest.ExistingOrderID, "shipped")
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if shipped.Status != "shipped" {
			return fmt.Errorf("expected shipped, got %s", shipped.Status)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %s", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}
		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) CreateOrder(ctx context.Context, body map[string]any) (*orderPayload, error) {
	return c.send(ctx, http.MethodPost, "/v1/orders", body)
}

func (c *orderClient) GetOrder(ctx context.Context, id string) (*orderPayload, error) {
	return c.send(ctx, http.MethodGet, "/v1/orders/"+id, nil)
}

func (c *orderClient) UpdateStatus(ctx context.Context, id, status string) (*orderPayload, error) {
	return c.send(ctx, http.MethodPatch, "/v1/orders/"+id+"/status", map[string]any{"status": status})
}

func (c *orderClient) send(ctx context.Context, method, path string, body any) (*orderPayload, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}
	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+pacttest.BearerToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
