package catalog

import (
	"reflect"
	"testing"

	"github.com/gang-ground/internal/i18n"
)

func intPtr(v int) *int {
	return &v
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice("4999"); got != i18n.FormatRUB(4999) {
		t.Fatalf("unexpected formatted price: %q", got)
	}
	if got := FormatPrice("₽4999"); got != i18n.FormatRUB(4999) {
		t.Fatalf("currency symbol should be stripped: %q", got)
	}
	if got := FormatPrice("по запросу"); got != "по запросу" {
		t.Fatalf("price without digits should be kept: %q", got)
	}
	if got := FormatPrice("  "); got != "" {
		t.Fatalf("blank price should be empty: %q", got)
	}
}

func TestDescriptionLines(t *testing.T) {
	raw := "<p>Плотный хлопок. Оверсайз крой</p><ul><li>100% cotton</li><li>Made&nbsp;in RU</li></ul>line<br/>break"
	want := []string{"Плотный хлопок", "Оверсайз крой", "• 100% cotton", "• Made in RU", "line", "break"}
	if got := DescriptionLines(raw); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines:\n got %q\nwant %q", got, want)
	}
	if got := DescriptionLines(""); len(got) != 0 {
		t.Fatalf("empty description should produce no lines: %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Basic GG T-Shirt":   "basic-gg-t-shirt",
		"bat  gang\tt-shirt": "bat-gang-t-shirt",
		"худи":               "худи",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) want %q got %q", input, want, got)
		}
	}
}

func TestIsInStock(t *testing.T) {
	if !IsInStock("IN_STOCK", nil) || !IsInStock("in_stock", intPtr(0)) {
		t.Fatalf("IN_STOCK status should be in stock")
	}
	if !IsInStock("OUT_OF_STOCK", intPtr(3)) {
		t.Fatalf("positive quantity should be in stock")
	}
	if IsInStock("OUT_OF_STOCK", intPtr(0)) || IsInStock("", nil) {
		t.Fatalf("out of stock without quantity should not be in stock")
	}
}

func TestMatchVariation(t *testing.T) {
	product := Product{Variations: []Variation{
		{ID: "v1", Attributes: []Attribute{{Name: "size", Value: "S"}}},
		{ID: "v2", Attributes: []Attribute{{Name: "size", Value: "M"}}},
	}}
	v, ok := product.MatchVariation("m")
	if !ok || v.ID != "v2" {
		t.Fatalf("expected case-insensitive match on v2, got %+v", v)
	}
	if _, ok := product.MatchVariation("xl"); ok {
		t.Fatalf("unknown size should not match")
	}
}
