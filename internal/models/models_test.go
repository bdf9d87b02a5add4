package models

import (
	"testing"
	"time"
)

func TestDiscountPercent(t *testing.T) {
	cases := []struct {
		price, original float64
		want            int
	}{
		{49, 99, 51},
		{75, 100, 25},
		{100, 100, 0},
		{100, 80, 0},
		{29, 0, 0},
	}
	for _, tc := range cases {
		if got := DiscountPercent(tc.price, tc.original); got != tc.want {
			t.Errorf("DiscountPercent(%v, %v) = %d, want %d", tc.price, tc.original, got, tc.want)
		}
	}
}

func TestProductDerive(t *testing.T) {
	p := Product{Price: 49, OriginalPrice: 99}
	p.Derive()
	if p.DiscountPercentage != 51 {
		t.Fatalf("expected discountPercentage 51, got %d", p.DiscountPercentage)
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, category := range ProductCategories {
		if !IsValidCategory(category) {
			t.Errorf("expected %q to be valid", category)
		}
	}
	if IsValidCategory("gaming") {
		t.Error("expected gaming to be invalid")
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "first.last@example.co", "user-name@sub.domain.io"}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "plain", "a@b", "@b.com", "a@.com"}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestIsValidSource(t *testing.T) {
	if !IsValidSource("gumroad") {
		t.Error("expected gumroad to be valid")
	}
	if IsValidSource("carrier_pigeon") {
		t.Error("expected carrier_pigeon to be invalid")
	}
}

func TestDaysSinceSubscribed(t *testing.T) {
	now := time.Now()
	s := Subscriber{SubscribedAt: now.Add(-73 * time.Hour)}
	if got := s.DaysSinceSubscribed(now); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
}

func TestIsValidFeedbackStatus(t *testing.T) {
	for _, status := range []string{FeedbackStatusPending, FeedbackStatusApproved, FeedbackStatusRejected} {
		if !IsValidFeedbackStatus(status) {
			t.Errorf("expected %q to be valid", status)
		}
	}
	if IsValidFeedbackStatus("archived") {
		t.Error("expected archived to be invalid")
	}
}

func TestIsValidFeedbackType(t *testing.T) {
	for _, ft := range FeedbackTypes {
		if !IsValidFeedbackType(ft) {
			t.Errorf("expected %q to be valid", ft)
		}
	}
	if IsValidFeedbackType("complaint") {
		t.Error("expected complaint to be invalid")
	}
}
