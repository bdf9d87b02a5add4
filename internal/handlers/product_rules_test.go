package handlers

import "testing"

func TestIsValidGumroadLink(t *testing.T) {
	valid := []string{
		"https://gumroad.com/l/neurobit-planner",
		"https://gumroad.com/l/x",
	}
	for _, link := range valid {
		if !isValidGumroadLink(link) {
			t.Errorf("expected %q to be valid", link)
		}
	}

	invalid := []string{
		"",
		"http://gumroad.com/l/neurobit-planner",
		"https://gumroad.com/l/",
		"https://example.com/l/neurobit-planner",
	}
	for _, link := range invalid {
		if isValidGumroadLink(link) {
			t.Errorf("expected %q to be invalid", link)
		}
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got := normalizeSlug("  NeuroBit-Planner "); got != "neurobit-planner" {
		t.Fatalf("expected lowercase trimmed slug, got %q", got)
	}
}

func TestValidateProductCreateInvalidCategory(t *testing.T) {
	price := 29.0
	req := ProductCreateRequest{
		Name:        "Focus OS",
		Slug:        "focus-os",
		Description: "A complete deep-work operating system.",
		Price:       &price,
		Category:    "invalid",
		GumroadLink: "https://gumroad.com/l/focus-os",
	}

	fieldErrors := validateProductCreate(req)
	if len(fieldErrors) != 1 {
		t.Fatalf("expected exactly one field error, got %v", fieldErrors)
	}
	if fieldErrors[0].Field != "category" {
		t.Fatalf("expected the error to name category, got %q", fieldErrors[0].Field)
	}
}

func TestValidateProductCreateMissingPrice(t *testing.T) {
	req := ProductCreateRequest{
		Name:        "Focus OS",
		Slug:        "focus-os",
		Description: "A complete deep-work operating system.",
		Category:    "productivity",
		GumroadLink: "https://gumroad.com/l/focus-os",
	}

	fieldErrors := validateProductCreate(req)
	if len(fieldErrors) != 1 || fieldErrors[0].Field != "price" {
		t.Fatalf("expected a price field error, got %v", fieldErrors)
	}
}

func TestValidateProductCreateValid(t *testing.T) {
	price := 0.0
	req := ProductCreateRequest{
		Name:        "Focus OS",
		Slug:        "focus-os",
		Description: "A complete deep-work operating system.",
		Price:       &price,
		Category:    "productivity",
		GumroadLink: "https://gumroad.com/l/focus-os",
	}

	if fieldErrors := validateProductCreate(req); len(fieldErrors) != 0 {
		t.Fatalf("expected no field errors for a free product, got %v", fieldErrors)
	}
}

func TestValidateRatingBounds(t *testing.T) {
	if err := validateRating(5); err != nil {
		t.Fatalf("rating 5 should be valid: %v", err)
	}
	if err := validateRating(5.1); err == nil {
		t.Fatal("rating above 5 should be rejected")
	}
	if err := validateRating(-0.1); err == nil {
		t.Fatal("negative rating should be rejected")
	}
}
