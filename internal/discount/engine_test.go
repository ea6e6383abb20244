package discount

import (
	"math/rand"
	"testing"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/i18n"
	"github.com/tadka-labs/storefront/internal/models"

	"github.com/shopspring/decimal"
)

func money(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func demoCoupons() []models.Coupon {
	return []models.Coupon{
		{ID: "c1", Code: "WELCOME50", DiscountType: constants.DiscountTypeFlat, DiscountValue: money(50), Active: true},
		{ID: "c2", Code: "SAVE500", DiscountType: constants.DiscountTypeFlat, DiscountValue: money(75), MinSubtotal: money(500), Active: true},
		{ID: "c3", Code: "FESTIVE30", DiscountType: constants.DiscountTypePercent, DiscountValue: money(30), Active: true},
		{ID: "c4", Code: "OLDIE", DiscountType: constants.DiscountTypeFlat, DiscountValue: money(10), Active: false},
	}
}

func TestEvaluateScenarios(t *testing.T) {
	cases := []struct {
		name     string
		code     string
		subtotal int64
		applied  bool
		reason   Reason
		amount   string
		newTotal string
	}{
		{"flat under subtotal", "WELCOME50", 520, true, ReasonNone, "50.00", "470.00"},
		{"below minimum", "SAVE500", 420, false, ReasonBelowMinimum, "0.00", "420.00"},
		{"percent", "FESTIVE30", 100, true, ReasonNone, "30.00", "70.00"},
		{"percent rounds down at 0.3", "FESTIVE30", 1, true, ReasonNone, "0.00", "1.00"},
		{"unknown code", "BOGUS", 250, false, ReasonNotFound, "0.00", "250.00"},
		{"flat clamped to subtotal", "WELCOME50", 30, true, ReasonNone, "30.00", "0.00"},
		{"inactive", "OLDIE", 200, false, ReasonInactive, "0.00", "200.00"},
		{"case and whitespace", "  welcome50 ", 100, true, ReasonNone, "50.00", "50.00"},
		{"empty code", "", 100, false, ReasonNotFound, "0.00", "100.00"},
		{"minimum met exactly", "SAVE500", 500, true, ReasonNone, "75.00", "425.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.code, money(tc.subtotal), demoCoupons())
			if got.Applied != tc.applied {
				t.Fatalf("applied want %v got %v", tc.applied, got.Applied)
			}
			if got.Reason != tc.reason {
				t.Fatalf("reason want %q got %q", tc.reason, got.Reason)
			}
			if got.Amount.String() != tc.amount {
				t.Fatalf("amount want %s got %s", tc.amount, got.Amount.String())
			}
			if got.NewTotal.String() != tc.newTotal {
				t.Fatalf("new total want %s got %s", tc.newTotal, got.NewTotal.String())
			}
		})
	}
}

func TestEvaluateBelowMinimumCarriesFloor(t *testing.T) {
	got := Evaluate("save500", money(420), demoCoupons())
	if got.MinSubtotal.String() != "500.00" {
		t.Fatalf("min subtotal want 500.00 got %s", got.MinSubtotal.String())
	}
	if msg := got.Message(i18n.LocaleEN, "₹"); msg != "Minimum order value is ₹500" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestEvaluatePercentHalfRoundsAwayFromZero(t *testing.T) {
	coupons := []models.Coupon{
		{Code: "HALF", DiscountType: constants.DiscountTypePercent, DiscountValue: money(50), Active: true},
	}
	got := Evaluate("HALF", money(5), coupons)
	if got.Amount.String() != "3.00" {
		t.Fatalf("2.5 should round to 3, got %s", got.Amount.String())
	}
	if got.NewTotal.String() != "2.00" {
		t.Fatalf("new total want 2.00 got %s", got.NewTotal.String())
	}
}

func cents(v int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.New(v, -2))
}

func TestEvaluateFractionalSubtotal(t *testing.T) {
	got := Evaluate("WELCOME50", cents(9950), demoCoupons())
	if got.NewTotal.String() != "50.00" || got.Amount.String() != "49.50" {
		t.Fatalf("want amount 49.50 total 50.00, got %s / %s", got.Amount.String(), got.NewTotal.String())
	}

	half := []models.Coupon{
		{Code: "HALF", DiscountType: constants.DiscountTypePercent, DiscountValue: money(50), Active: true},
	}
	low := Evaluate("HALF", cents(290), half)
	high := Evaluate("HALF", cents(300), half)
	if high.NewTotal.LessThan(low.NewTotal.Decimal) {
		t.Fatalf("total fell from %s to %s as subtotal grew", low.NewTotal.String(), high.NewTotal.String())
	}
}

func TestEvaluateNeverRaisesTotal(t *testing.T) {
	got := Evaluate("FESTIVE30", cents(50), demoCoupons())
	if !got.Applied {
		t.Fatalf("coupon should apply")
	}
	if got.NewTotal.String() != "0.50" || got.Amount.String() != "0.00" {
		t.Fatalf("want amount 0.00 total 0.50, got %s / %s", got.Amount.String(), got.NewTotal.String())
	}
}

func TestEvaluateMessages(t *testing.T) {
	cases := []struct {
		code   string
		locale string
		want   string
	}{
		{"WELCOME50", i18n.LocaleEN, "Coupon applied successfully"},
		{"NOPE", i18n.LocaleEN, "Coupon not found"},
		{"OLDIE", i18n.LocaleEN, "Coupon is inactive"},
		{"SAVE500", i18n.LocaleZH, "订单满 ₹500 才可使用"},
	}
	for _, tc := range cases {
		if msg := Evaluate(tc.code, money(100), demoCoupons()).Message(tc.locale, "₹"); msg != tc.want {
			t.Fatalf("%s/%s: want %q got %q", tc.code, tc.locale, tc.want, msg)
		}
	}
	if msg := (Result{}).Message(i18n.LocaleEN, "₹"); msg != "" {
		t.Fatalf("empty result should have no message, got %q", msg)
	}
}

func TestEvaluateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		flat := rng.Int63n(300)
		pct := rng.Int63n(101)
		coupons := []models.Coupon{
			{Code: "FLAT", DiscountType: constants.DiscountTypeFlat, DiscountValue: money(flat), Active: true},
			{Code: "PCT", DiscountType: constants.DiscountTypePercent, DiscountValue: money(pct), Active: true},
		}
		// 以分为单位抽样，覆盖带角分的小计
		s := rng.Int63n(200000)
		for _, code := range []string{"FLAT", "PCT"} {
			first := Evaluate(code, cents(s), coupons)
			second := Evaluate(code, cents(s), coupons)
			if !first.Amount.Equal(second.Amount.Decimal) {
				t.Fatalf("evaluation not idempotent for %s at %d", code, s)
			}
			if first.NewTotal.IsNegative() || first.Amount.IsNegative() {
				t.Fatalf("negative result for %s at %d: %+v", code, s, first)
			}
			if first.NewTotal.GreaterThan(cents(s).Decimal) {
				t.Fatalf("total above subtotal for %s at %d: %s", code, s, first.NewTotal.String())
			}
			if !first.Amount.Add(first.NewTotal.Decimal).Equal(cents(s).Decimal) {
				t.Fatalf("amount + total != subtotal for %s at %d", code, s)
			}
			higher := Evaluate(code, cents(s+1+rng.Int63n(500)), coupons)
			if higher.NewTotal.LessThan(first.NewTotal.Decimal) {
				t.Fatalf("total decreased as subtotal grew for %s from %d", code, s)
			}
		}

		whole := s / 100
		flatResult := Evaluate("FLAT", money(whole), coupons)
		wantAmount := flat
		if whole < wantAmount {
			wantAmount = whole
		}
		if !flatResult.Amount.Equal(money(wantAmount).Decimal) {
			t.Fatalf("flat amount want %d got %s", wantAmount, flatResult.Amount.String())
		}
		if !flatResult.NewTotal.Equal(money(whole - wantAmount).Decimal) {
			t.Fatalf("flat total want %d got %s", whole-wantAmount, flatResult.NewTotal.String())
		}
	}
}

func TestReconcile(t *testing.T) {
	coupons := demoCoupons()
	applied := models.AppliedCoupon{Code: "WELCOME50", Amount: money(50)}

	if got := Reconcile(applied, coupons, true); !IsNone(got) {
		t.Fatalf("empty cart should reset, got %+v", got)
	}
	if got := Reconcile(applied, coupons, false); got.Code != "WELCOME50" || got.Amount.String() != "50.00" {
		t.Fatalf("valid coupon should be kept, got %+v", got)
	}
	if got := Reconcile(applied, coupons[1:], false); !IsNone(got) {
		t.Fatalf("removed coupon should reset, got %+v", got)
	}
	inactive := models.AppliedCoupon{Code: "oldie", Amount: money(10)}
	if got := Reconcile(inactive, coupons, false); !IsNone(got) {
		t.Fatalf("inactive coupon should reset, got %+v", got)
	}
	if got := Reconcile(models.AppliedCoupon{}, coupons, false); got.Code != constants.NoCouponCode {
		t.Fatalf("blank slot should normalize to sentinel, got %+v", got)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	coupons := demoCoupons()
	states := []models.AppliedCoupon{
		{Code: "WELCOME50", Amount: money(50)},
		{Code: "GONE", Amount: money(5)},
		None(),
	}
	for _, state := range states {
		once := Reconcile(state, coupons, false)
		twice := Reconcile(once, coupons, false)
		if once.Code != twice.Code || !once.Amount.Equal(twice.Amount.Decimal) {
			t.Fatalf("reconcile toggled: %+v -> %+v", once, twice)
		}
	}
}
