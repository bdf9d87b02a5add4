package handlers

import (
	"fmt"
	"regexp"
	"strings"
)

var gumroadLinkPattern = regexp.MustCompile(`^https://gumroad\.com/l/.+`)

func isValidGumroadLink(link string) bool {
	return gumroadLinkPattern.MatchString(link)
}

// normalizeSlug mirrors the storage rule: slugs are lowercase and trimmed.
func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func validateName(name string) error {
	if l := len(strings.TrimSpace(name)); l < 2 || l > 100 {
		return fmt.Errorf("Name must be between 2 and 100 characters")
	}
	return nil
}

func validateSlug(slug string) error {
	if l := len(slug); l < 2 || l > 50 {
		return fmt.Errorf("Slug must be between 2 and 50 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(strings.TrimSpace(description)) < 10 {
		return fmt.Errorf("Description must be at least 10 characters")
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("Price must be zero or greater")
	}
	return nil
}

func validateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("Rating must be between 0 and 5")
	}
	return nil
}
