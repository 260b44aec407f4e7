package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gang-ground/internal/config"
)

func TestStrapiProductBySlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/api/products" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("filters[slug][$eq]") != "scream-tee" {
			_, _ = io.WriteString(w, `{"data":[],"meta":{}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"id":3,"attributes":{"name":"Scream Tee","slug":"scream-tee","price":4999,"description":"Soft","image":{"data":{"id":9,"attributes":{"url":"/uploads/scream.jpg"}}}}}],"meta":{}}`)
	}))
	t.Cleanup(server.Close)

	provider, err := NewStrapiProvider(config.StrapiConfig{BaseURL: server.URL, Token: "secret"}, time.Second)
	if err != nil {
		t.Fatalf("new strapi provider failed: %v", err)
	}
	product, err := provider.GetProductBySlug(context.Background(), "scream-tee")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.ID != "3" || product.Price != "₽4999" {
		t.Fatalf("unexpected product: %+v", product)
	}
	if len(product.Images) != 1 || product.Images[0] != server.URL+"/uploads/scream.jpg" {
		t.Fatalf("image should be prefixed with base url: %+v", product.Images)
	}
	if _, err := provider.GetProductBySlug(context.Background(), "nope"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("empty data should be not found, got %v", err)
	}

	provider.token = "wrong"
	if err := provider.Ping(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("wrong token should fail, got %v", err)
	}
}

func TestNewStrapiProviderRequiresToken(t *testing.T) {
	if _, err := NewStrapiProvider(config.StrapiConfig{}, time.Second); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing token should be rejected, got %v", err)
	}
}
