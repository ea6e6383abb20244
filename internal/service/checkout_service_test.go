package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/repository"
)

func validCustomer() models.OrderCustomer {
	return models.OrderCustomer{FullName: "Asha", Mobile: "9876543210", Street: "12 MG Road", City: "Pune"}
}

func TestCheckoutValidation(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		customer models.OrderCustomer
		want     error
	}{
		{"name", models.OrderCustomer{Mobile: "1", Street: "x"}, ErrCheckoutNameRequired},
		{"mobile", models.OrderCustomer{FullName: "A", Street: "x"}, ErrCheckoutMobileRequired},
		{"street", models.OrderCustomer{FullName: "A", Mobile: "1", Street: "  "}, ErrCheckoutStreetRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.checkout.PlaceOrder(ctx, CheckoutInput{Session: "s1", Customer: tc.customer})
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := f.checkout.PlaceOrder(ctx, CheckoutInput{Session: "s1", Customer: validCustomer()}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected cart empty, got %v", err)
	}
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "s1", "Desserts Demo 3", 2) // 540
	if _, err := f.coupons.Apply(ctx, "s1", "SAVE500"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	order, err := f.checkout.PlaceOrder(ctx, CheckoutInput{Session: "s1", Customer: validCustomer()})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !strings.HasPrefix(order.OrderNo, constants.OrderNoPrefix) {
		t.Fatalf("unexpected order no: %s", order.OrderNo)
	}
	if order.Subtotal.String() != "540.00" || order.DiscountAmount.String() != "75.00" || order.TotalAmount.String() != "465.00" {
		t.Fatalf("unexpected amounts: %+v", order)
	}
	if order.CouponCode != "SAVE500" || order.PaymentMethod != constants.PaymentMethodCOD || order.Status != constants.OrderStatusPlaced {
		t.Fatalf("unexpected order: %+v", order)
	}

	stored, err := f.orders.GetForSession(order.OrderNo, "s1")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Quantity != 2 || stored.Customer.City != "Pune" {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
	if _, err := f.orders.GetForSession(order.OrderNo, "other"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign session should not see order, got %v", err)
	}

	view, err := f.cart.Get(ctx, "s1")
	if err != nil || len(view.Items) != 0 || view.Coupon.Code != constants.NoCouponCode {
		t.Fatalf("cart should be cleared, got %+v %v", view, err)
	}
	orders, total, err := f.orders.List(repository.OrderListFilter{Page: 1, PageSize: 10, CartSession: "s1"})
	if err != nil || total != 1 || len(orders) != 1 {
		t.Fatalf("expected one listed order, got %d %v", total, err)
	}
}

func TestDashboardOverview(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "s1", "Drinks Demo 1", 1) // 170
	if _, err := f.coupons.Apply(ctx, "s1", "WELCOME50"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if _, err := f.checkout.PlaceOrder(ctx, CheckoutInput{Session: "s1", Customer: validCustomer()}); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	overview, err := f.dashboard.Overview(ctx, true)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.CouponsTotal != 3 || overview.CouponsActive != 3 || overview.Categories != 6 || overview.Products != 18 {
		t.Fatalf("unexpected counts: %+v", overview)
	}
	if overview.Orders != 1 || overview.Revenue.String() != "120.00" || overview.DiscountTotal.String() != "50.00" {
		t.Fatalf("unexpected order stats: %+v", overview)
	}
	if len(overview.LatestOrders) != 1 || len(overview.CouponUsage) != 1 || overview.CouponUsage[0].CouponCode != "WELCOME50" {
		t.Fatalf("unexpected latest/usage: %+v", overview)
	}
}
