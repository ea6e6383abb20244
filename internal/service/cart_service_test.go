package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/discount"
	"github.com/tadka-labs/storefront/internal/models"
)

func TestCartAddItemMergesSameProduct(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	product := f.productByTitle(t, "Starters Demo 1")

	if _, err := f.cart.AddItem(ctx, "s1", product.ID); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	view, err := f.cart.AddItem(ctx, "s1", product.ID)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with qty 2, got %+v", view.Items)
	}
	if view.ItemCount != 2 || view.Subtotal.String() != "340.00" {
		t.Fatalf("unexpected totals: count=%d subtotal=%s", view.ItemCount, view.Subtotal)
	}
	if view.Coupon.Code != constants.NoCouponCode || !view.Total.Equal(view.Subtotal.Decimal) {
		t.Fatalf("expected no coupon, got %+v total=%s", view.Coupon, view.Total)
	}
}

func TestCartValidation(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	product := f.productByTitle(t, "Pizzas Demo 2")

	if _, err := f.cart.Get(ctx, " "); !errors.Is(err, ErrCartSessionMissing) {
		t.Fatalf("expected session missing, got %v", err)
	}
	if _, err := f.cart.AddItem(ctx, "s1", "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
	if _, err := f.cart.AddItem(ctx, "s1", product.ID); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := f.cart.UpdateQuantity(ctx, "s1", product.ID, constants.DefaultCartLineLimit+1); !errors.Is(err, ErrCartQuantityInvalid) {
		t.Fatalf("expected quantity invalid, got %v", err)
	}
	if _, err := f.cart.UpdateQuantity(ctx, "s1", "other", 2); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found for missing line, got %v", err)
	}
}

func TestCartQuantityZeroRemovesLine(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "s1", "Burgers Demo 1", 2)
	product := f.productByTitle(t, "Burgers Demo 1")

	view, err := f.cart.UpdateQuantity(ctx, "s1", product.ID, 0)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if len(view.Items) != 0 || view.ItemCount != 0 || !view.Subtotal.IsZero() {
		t.Fatalf("expected empty cart, got %+v", view)
	}
	if f.publisher.count(constants.TopicCartUpdated) == 0 {
		t.Fatalf("expected cart-updated events")
	}
}

func TestCartWriteReevaluatesPercentCoupon(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "s1", "Starters Demo 1", 3) // 510

	result, err := f.coupons.Apply(ctx, "s1", "festive30")
	if err != nil || !result.Applied {
		t.Fatalf("apply failed: %+v %v", result, err)
	}
	if result.Amount.String() != "153.00" || result.NewTotal.String() != "357.00" {
		t.Fatalf("unexpected result: amount=%s total=%s", result.Amount, result.NewTotal)
	}

	product := f.productByTitle(t, "Starters Demo 1")
	view, err := f.cart.UpdateQuantity(ctx, "s1", product.ID, 2) // 340
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if view.Coupon.Code != "FESTIVE30" || view.Discount.String() != "102.00" || view.Total.String() != "238.00" {
		t.Fatalf("expected re-evaluated coupon, got coupon=%+v total=%s", view.Coupon, view.Total)
	}
}

func TestCartWriteClearsCouponBelowMinimum(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "s1", "Starters Demo 1", 3) // 510

	result, err := f.coupons.Apply(ctx, "s1", "SAVE500")
	if err != nil || !result.Applied || result.Amount.String() != "75.00" {
		t.Fatalf("apply failed: %+v %v", result, err)
	}

	product := f.productByTitle(t, "Starters Demo 1")
	view, err := f.cart.UpdateQuantity(ctx, "s1", product.ID, 2)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if view.Coupon.Code != constants.NoCouponCode || !view.Discount.IsZero() || view.Total.String() != "340.00" {
		t.Fatalf("expected coupon cleared, got %+v total=%s", view.Coupon, view.Total)
	}
	applied, err := f.cartRepo.GetApplied(ctx, "s1")
	if err != nil || applied.Code != constants.NoCouponCode {
		t.Fatalf("expected stored slot cleared, got %+v %v", applied, err)
	}
}

func TestCartEmptiedClearsCoupon(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "s1", "Drinks Demo 1", 1)
	if _, err := f.coupons.Apply(ctx, "s1", "WELCOME50"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	product := f.productByTitle(t, "Drinks Demo 1")
	view, err := f.cart.RemoveItem(ctx, "s1", product.ID)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if view.Coupon.Code != constants.NoCouponCode {
		t.Fatalf("expected coupon cleared on empty cart, got %+v", view.Coupon)
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	f := setupStorefrontTest(t)
	f.seedDemo(t)
	ctx := context.Background()
	f.fillCart(t, "a", "Biryani Demo 3", 1)

	view, err := f.cart.Get(ctx, "b")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("session b should be empty, got %+v", view.Items)
	}
	if err := f.cart.Clear(ctx, "a"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	view, err = f.cart.Get(ctx, "a")
	if err != nil || len(view.Items) != 0 {
		t.Fatalf("expected cleared cart, got %+v %v", view, err)
	}
}

func TestBuildCartViewKeepsCents(t *testing.T) {
	price, err := models.ParseMoney("2.90")
	if err != nil {
		t.Fatalf("parse money failed: %v", err)
	}
	lines := []models.CartLine{{ProductID: "legacy", Title: "Chai", UnitPrice: price, Quantity: 1}}
	festive := []models.Coupon{{Code: "FESTIVE30", DiscountType: constants.DiscountTypePercent, DiscountValue: money(30), Active: true}}

	result := discount.Evaluate("FESTIVE30", models.CartSubtotal(lines), festive)
	view := buildCartView("s1", lines, models.AppliedCoupon{Code: result.Code, Amount: result.Amount})
	if !view.Total.Equal(result.NewTotal.Decimal) {
		t.Fatalf("cart total %s should match evaluated total %s", view.Total.String(), result.NewTotal.String())
	}
	if view.Total.GreaterThan(view.Subtotal.Decimal) {
		t.Fatalf("total %s above subtotal %s", view.Total.String(), view.Subtotal.String())
	}
}
