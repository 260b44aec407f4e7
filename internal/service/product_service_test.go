package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/gang-ground/internal/catalog"
	"github.com/gang-ground/internal/i18n"
)

func TestBuildProductDetailWithVariations(t *testing.T) {
	product := hoodie()
	product.Images = []string{"https://cdn/1.jpg", " "}
	product.Description = "<p>Тёплый</p>"
	detail := BuildProductDetail(product)

	if !reflect.DeepEqual(detail.Sizes, []string{"s", "m"}) {
		t.Fatalf("unexpected sizes: %v", detail.Sizes)
	}
	if !reflect.DeepEqual(detail.AvailableSizes, []string{"m"}) {
		t.Fatalf("unexpected available sizes: %v", detail.AvailableSizes)
	}
	if detail.Price != i18n.FormatRUB(4999) {
		t.Fatalf("unexpected price: %q", detail.Price)
	}
	if !reflect.DeepEqual(detail.Images, []string{"https://cdn/1.jpg"}) {
		t.Fatalf("unexpected images: %v", detail.Images)
	}
	if !reflect.DeepEqual(detail.Description, []string{"Тёплый"}) {
		t.Fatalf("unexpected description: %v", detail.Description)
	}
}

func TestBuildProductDetailFallbacks(t *testing.T) {
	detail := BuildProductDetail(catalog.Product{ID: "1", Name: "Plain"})
	if !reflect.DeepEqual(detail.Sizes, []string{"s", "m", "l", "xl"}) {
		t.Fatalf("default sizes expected, got %v", detail.Sizes)
	}
	if !reflect.DeepEqual(detail.AvailableSizes, detail.Sizes) {
		t.Fatalf("available sizes should fall back to all sizes, got %v", detail.AvailableSizes)
	}
	if !reflect.DeepEqual(detail.Images, []string{"/items/item-01.jpg"}) {
		t.Fatalf("default image expected, got %v", detail.Images)
	}

	soldOut := catalog.Product{
		Variations: []catalog.Variation{
			{Price: "3000", StockStatus: "OUT_OF_STOCK", Attributes: []catalog.Attribute{{Value: "L"}}},
		},
	}
	detail = BuildProductDetail(soldOut)
	if !reflect.DeepEqual(detail.AvailableSizes, []string{"l"}) {
		t.Fatalf("nothing in stock should fall back to all sizes, got %v", detail.AvailableSizes)
	}
	if detail.Price != i18n.FormatRUB(3000) {
		t.Fatalf("variation price should be used, got %q", detail.Price)
	}
}

func TestProductServiceErrors(t *testing.T) {
	provider := newFakeCatalog(hoodie(), gangCap())
	svc := NewProductService(provider)
	ctx := context.Background()

	if _, err := svc.GetDetail(ctx, "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product should map to not found, got %v", err)
	}
	cards, err := svc.ListCards(ctx)
	if err != nil || len(cards) != 2 {
		t.Fatalf("unexpected cards: %+v err=%v", cards, err)
	}
	for _, card := range cards {
		if card.Image != "/items/item-01.jpg" {
			t.Fatalf("card without image should use default, got %q", card.Image)
		}
	}

	provider.err = catalog.ErrRequestFailed
	if _, err := svc.GetDetail(ctx, "gg-hoodie"); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("upstream failure should map to unavailable, got %v", err)
	}
	if _, err := svc.ListCards(ctx); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("list failure should map to unavailable, got %v", err)
	}
}
