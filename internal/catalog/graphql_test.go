package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newGraphQLServer(t *testing.T, handler func(query string, variables map[string]interface{}) (int, string)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		status, resp := handler(payload.Query, payload.Variables)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGraphQLProductBySlug(t *testing.T) {
	server := newGraphQLServer(t, func(query string, variables map[string]interface{}) (int, string) {
		if !strings.Contains(query, "ProductBySlug") {
			t.Errorf("unexpected query: %s", query)
		}
		if variables["slug"] != "gg-hoodie" {
			t.Errorf("unexpected slug variable: %v", variables)
		}
		return http.StatusOK, `{"data":{"product":{
			"id":"cHJvZHVjdDox","slug":"gg-hoodie","name":"GG Hoodie","price":"4999","stockStatus":"IN_STOCK",
			"description":"<p>Cotton</p>",
			"image":{"sourceUrl":"https://cdn/1.jpg"},
			"galleryImages":{"nodes":[{"sourceUrl":"https://cdn/2.jpg"}]},
			"variations":{"nodes":[
				{"id":"v1","name":"GG Hoodie - S","price":"4999","stockStatus":"OUT_OF_STOCK","stockQuantity":0,"attributes":{"nodes":[{"name":"pa_size","value":"S"}]}},
				{"id":"v2","name":"GG Hoodie - M","price":"4999","stockStatus":"in_stock","stockQuantity":null,"attributes":{"nodes":[{"name":"pa_size","value":"M"}]}}
			]}}}}`
	})
	provider, err := NewGraphQLProvider(server.URL, time.Second)
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	product, err := provider.GetProductBySlug(context.Background(), "gg-hoodie")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Name != "GG Hoodie" || len(product.Images) != 2 || len(product.Variations) != 2 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if product.Variations[1].StockStatus != "IN_STOCK" || product.Variations[0].StockQuantity == nil {
		t.Fatalf("unexpected variations: %+v", product.Variations)
	}
	if v, ok := product.MatchVariation("m"); !ok || !v.InStock() {
		t.Fatalf("size m should match an in-stock variation")
	}
}

func TestGraphQLErrors(t *testing.T) {
	server := newGraphQLServer(t, func(query string, _ map[string]interface{}) (int, string) {
		switch {
		case strings.Contains(query, "HealthCheck"):
			return http.StatusOK, `{"errors":[{"message":"Internal server error"},{"message":"second"}]}`
		case strings.Contains(query, "ProductBySlug"):
			return http.StatusOK, `{"data":{"product":null}}`
		default:
			return http.StatusBadGateway, `upstream down`
		}
	})
	provider, err := NewGraphQLProvider(server.URL, time.Second)
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	ctx := context.Background()

	err = provider.Ping(ctx)
	if !errors.Is(err, ErrResponseInvalid) || !strings.Contains(err.Error(), "Internal server error") {
		t.Fatalf("first graphql error should be reported, got %v", err)
	}
	if _, err := provider.GetProductBySlug(ctx, "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("null product should be not found, got %v", err)
	}
	_, err = provider.ListProducts(ctx)
	if !errors.Is(err, ErrRequestFailed) || !strings.Contains(err.Error(), "502") {
		t.Fatalf("http failure should be request failed with status, got %v", err)
	}
}

func TestGraphQLPingAndList(t *testing.T) {
	server := newGraphQLServer(t, func(query string, variables map[string]interface{}) (int, string) {
		if strings.Contains(query, "HealthCheck") {
			return http.StatusOK, `{"data":{"generalSettings":{"title":"GG","description":"store"}}}`
		}
		if variables["first"] != float64(graphQLPageSize) {
			t.Errorf("unexpected page size: %v", variables["first"])
		}
		return http.StatusOK, `{"data":{"products":{"nodes":[{"id":"1","slug":"a","name":"A","price":"100"},{"id":"2","slug":"b","name":"B","price":"200"}]}}}`
	})
	provider, err := NewGraphQLProvider(server.URL, time.Second)
	if err != nil {
		t.Fatalf("new provider failed: %v", err)
	}
	if err := provider.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	products, err := provider.ListProducts(context.Background())
	if err != nil || len(products) != 2 || products[1].Slug != "b" {
		t.Fatalf("unexpected list: %+v err=%v", products, err)
	}
}

func TestNewGraphQLProviderRequiresEndpoint(t *testing.T) {
	if _, err := NewGraphQLProvider(" ", time.Second); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("empty endpoint should be rejected, got %v", err)
	}
}
