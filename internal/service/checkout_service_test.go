package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/catalog"
	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/i18n"
	"github.com/gang-ground/internal/models"
	"github.com/gang-ground/internal/repository"
)

var testContact = Contact{Name: "Иван", Phone: "+79990000000", Email: "ivan@example.com"}

func assertFailure(t *testing.T, err error, reason string) *CheckoutFailure {
	t.Helper()
	var failure *CheckoutFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected checkout failure %s, got %v", reason, err)
	}
	if failure.Reason != reason {
		t.Fatalf("expected reason %s, got %s (%s)", reason, failure.Reason, failure.Message)
	}
	return failure
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestCheckout(t, newFakeCatalog(), CheckoutOptions{})
	_, err := svc.Checkout(context.Background(), CheckoutInput{SessionID: "s1", Locale: i18n.LocaleRU, Contact: testContact})
	failure := assertFailure(t, err, constants.CheckoutReasonCartEmpty)
	if failure.Message != "Корзина пуста" {
		t.Fatalf("unexpected message: %q", failure.Message)
	}
}

func TestCheckoutValidationFailures(t *testing.T) {
	provider := newFakeCatalog(hoodie(), catalog.Product{
		ID: "p-sold", Slug: "sold-out", Name: "Sold Out", Price: "100", StockStatus: "OUT_OF_STOCK", StockQuantity: intPtr(0),
	})
	svc, _ := newTestCheckout(t, provider, CheckoutOptions{})
	ctx := context.Background()

	cases := []struct {
		item   CheckoutItem
		reason string
	}{
		{CheckoutItem{Slug: "nope", Name: "Nope", Quantity: 1}, constants.CheckoutReasonProductNotFound},
		{CheckoutItem{Slug: "gg-hoodie", Name: "GG Hoodie", Size: "XL", Quantity: 1}, constants.CheckoutReasonVariantNotFound},
		{CheckoutItem{Slug: "gg-hoodie", Name: "GG Hoodie", Size: "s", Quantity: 1}, constants.CheckoutReasonOutOfStock},
		{CheckoutItem{Slug: "sold-out", Name: "Sold Out", Quantity: 1}, constants.CheckoutReasonOutOfStock},
	}
	for _, tc := range cases {
		_, err := svc.Checkout(ctx, CheckoutInput{Locale: i18n.LocaleEN, Contact: testContact, Items: []CheckoutItem{tc.item}})
		failure := assertFailure(t, err, tc.reason)
		if !strings.Contains(failure.Message, tc.item.Name) {
			t.Fatalf("message should name the item: %q", failure.Message)
		}
	}
}

func TestCheckoutStopsAtFirstFailure(t *testing.T) {
	provider := newFakeCatalog(hoodie())
	svc, _ := newTestCheckout(t, provider, CheckoutOptions{})
	_, err := svc.Checkout(context.Background(), CheckoutInput{Contact: testContact, Items: []CheckoutItem{
		{Slug: "missing", Name: "Missing", Quantity: 1},
		{Slug: "gg-hoodie", Name: "GG Hoodie", Size: "M", Quantity: 1},
	}})
	assertFailure(t, err, constants.CheckoutReasonProductNotFound)
	if len(provider.lookups) != 1 {
		t.Fatalf("validation should stop at the first failure, lookups=%v", provider.lookups)
	}
}

func TestCheckoutCatalogUnavailable(t *testing.T) {
	provider := newFakeCatalog()
	provider.err = catalog.ErrRequestFailed
	svc, _ := newTestCheckout(t, provider, CheckoutOptions{})
	_, err := svc.Checkout(context.Background(), CheckoutInput{Contact: testContact, Items: []CheckoutItem{{Slug: "x", Name: "X", Quantity: 1}}})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("upstream failure should be unavailable, got %v", err)
	}
}

func TestCheckoutRequiresContact(t *testing.T) {
	svc, _ := newTestCheckout(t, newFakeCatalog(), CheckoutOptions{})
	_, err := svc.Checkout(context.Background(), CheckoutInput{Contact: Contact{Name: "Иван"}})
	if !errors.Is(err, ErrContactInvalid) {
		t.Fatalf("missing phone and email should be rejected, got %v", err)
	}
}

func TestCheckoutFromSessionCart(t *testing.T) {
	provider := newFakeCatalog(hoodie(), gangCap())
	svc, carts := newTestCheckout(t, provider, CheckoutOptions{Currency: "rub"})
	ctx := context.Background()

	if _, err := carts.Add(ctx, "s1", cart.Candidate{ID: "p-hoodie", Name: "GG Hoodie", Price: "4 999 ₽", Size: "M"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := carts.Add(ctx, "s1", cart.Candidate{ID: "p-hoodie", Name: "GG Hoodie", Price: "4 999 ₽", Size: "M"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := carts.Add(ctx, "s1", cart.Candidate{ID: "p-cap", Name: "Gang Cap", Price: "1 500 ₽"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	result, err := svc.Checkout(ctx, CheckoutInput{SessionID: "s1", Contact: testContact})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !strings.HasPrefix(result.OrderNo, "REQ-") || len(strings.Split(result.OrderNo, "-")) != 3 {
		t.Fatalf("unexpected order no: %s", result.OrderNo)
	}
	if result.Status != constants.OrderStatusSubmitted || result.PaymentURL != "" || result.ExpiresAt != nil {
		t.Fatalf("plain checkout should be submitted: %+v", result)
	}
	if strings.Join(provider.lookups, ",") != "gg-hoodie,gang-cap" {
		t.Fatalf("slugs should be derived from names, got %v", provider.lookups)
	}

	var order models.Order
	if err := models.DB.Preload("Items").Where("order_no = ?", result.OrderNo).First(&order).Error; err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if order.TotalAmount.String() != "11498.00" || order.TotalItems != 3 || order.Currency != "RUB" || len(order.Items) != 2 {
		t.Fatalf("unexpected persisted order: %+v", order)
	}
	if order.Items[0].VariationID != "v-m" || order.Items[0].TotalPrice.String() != "9998.00" {
		t.Fatalf("unexpected first item: %+v", order.Items[0])
	}

	state, err := carts.Get(ctx, "s1")
	if err != nil || !state.IsEmpty() {
		t.Fatalf("cart should be cleared after checkout: %+v err=%v", state, err)
	}
}

func TestCheckoutRemoteOrderPendingPayment(t *testing.T) {
	placer := &fakePlacer{fakeCatalog: newFakeCatalog(hoodie()), url: "https://shop/pay/901"}
	svc, _ := newTestCheckout(t, placer, CheckoutOptions{PlaceRemoteOrder: true, PaymentExpireMinutes: 15})
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Checkout(context.Background(), CheckoutInput{Contact: testContact, Items: []CheckoutItem{
		{Slug: "gg-hoodie", ID: "p-hoodie", Name: "GG Hoodie", Price: "4999", Size: "m", Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Status != constants.OrderStatusPendingPayment || result.PaymentURL != "https://shop/pay/901" {
		t.Fatalf("remote order should be pending payment: %+v", result)
	}
	if result.ExpiresAt == nil || !result.ExpiresAt.Equal(fixed.Add(15*time.Minute)) {
		t.Fatalf("unexpected expiry: %v", result.ExpiresAt)
	}
	if !strings.HasPrefix(result.OrderNo, "REQ-1772366400000-") {
		t.Fatalf("order no should carry the millisecond timestamp: %s", result.OrderNo)
	}
	if len(placer.placed) != 1 || placer.placed[0].Lines[0].VariationID != "v-m" || placer.placed[0].OrderNo != result.OrderNo {
		t.Fatalf("unexpected remote order input: %+v", placer.placed)
	}
	if placer.localStatus != constants.OrderStatusSubmitted {
		t.Fatalf("local record should exist before remote placing, got status %q", placer.localStatus)
	}
	var order models.Order
	if err := models.DB.Where("order_no = ?", result.OrderNo).First(&order).Error; err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if order.Status != constants.OrderStatusPendingPayment || order.RemoteOrderID != "901" || order.PaymentURL != "https://shop/pay/901" || order.ExpiresAt == nil {
		t.Fatalf("remote order should be attached to local record: %+v", order)
	}
}

func TestCheckoutRemoteOrderFailureKeepsCart(t *testing.T) {
	placer := &fakePlacer{fakeCatalog: newFakeCatalog(gangCap()), url: "https://shop/pay", placeErr: errors.New("woo down")}
	svc, carts := newTestCheckout(t, placer, CheckoutOptions{PlaceRemoteOrder: true})
	ctx := context.Background()
	if _, err := carts.Add(ctx, "s-remote", cart.Candidate{ID: "p-cap", Name: "Gang Cap", Price: "1500"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err := svc.Checkout(ctx, CheckoutInput{SessionID: "s-remote", Contact: testContact})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("remote failure should map to catalog unavailable, got %v", err)
	}
	if len(placer.placed) != 1 {
		t.Fatalf("remote order should be attempted once, got %d", len(placer.placed))
	}
	var order models.Order
	if err := models.DB.Where("order_no = ?", placer.placed[0].OrderNo).First(&order).Error; err != nil {
		t.Fatalf("local record should be kept: %v", err)
	}
	if order.Status != constants.OrderStatusFailed || order.RemoteOrderID != "" {
		t.Fatalf("local record should be marked failed: %+v", order)
	}
	state, err := carts.Get(ctx, "s-remote")
	if err != nil || state.TotalItems != 1 {
		t.Fatalf("cart should survive failed checkout: %+v err=%v", state, err)
	}
}

func TestCheckoutRemoteAttachFailureStillSucceeds(t *testing.T) {
	db := setupServiceDB(t)
	placer := &fakePlacer{fakeCatalog: newFakeCatalog(gangCap()), url: "https://shop/pay/901"}
	carts := newTestCartService()
	repo := failingStatusRepo{GormOrderRepository: repository.NewOrderRepository(db)}
	svc := NewCheckoutService(placer, carts, repo, nil, CheckoutOptions{PlaceRemoteOrder: true})
	ctx := context.Background()
	if _, err := carts.Add(ctx, "s-attach", cart.Candidate{ID: "p-cap", Name: "Gang Cap", Price: "1500"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	result, err := svc.Checkout(ctx, CheckoutInput{SessionID: "s-attach", Contact: testContact})
	if err != nil {
		t.Fatalf("placed remote order should not fail checkout: %v", err)
	}
	if result.Status != constants.OrderStatusSubmitted || result.PaymentURL != "https://shop/pay/901" {
		t.Fatalf("unexpected result: %+v", result)
	}
	var order models.Order
	if err := models.DB.Where("order_no = ?", result.OrderNo).First(&order).Error; err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if order.Status != constants.OrderStatusSubmitted {
		t.Fatalf("local record should stay submitted: %+v", order)
	}
	state, err := carts.Get(ctx, "s-attach")
	if err != nil || !state.IsEmpty() {
		t.Fatalf("cart should be cleared once the remote order exists: %+v err=%v", state, err)
	}
}

func TestCheckoutRemoteOrderDisabled(t *testing.T) {
	placer := &fakePlacer{fakeCatalog: newFakeCatalog(gangCap()), url: "https://shop/pay"}
	svc, _ := newTestCheckout(t, placer, CheckoutOptions{PlaceRemoteOrder: false})
	result, err := svc.Checkout(context.Background(), CheckoutInput{Contact: testContact, Items: []CheckoutItem{{Slug: "gang-cap", Name: "Gang Cap", Price: "1500", Quantity: 1}}})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(placer.placed) != 0 || result.Status != constants.OrderStatusSubmitted {
		t.Fatalf("remote placing should be skipped: %+v", result)
	}
}
