package domain

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// ValidationError maps form field names to a human readable problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OrderFields is the user-editable part of an order.
type OrderFields struct {
	Name    string
	Product string
	Qty     int
	Address string
}

// ValidateOrderFields applies the storefront form rules. It returns nil
// when every field is acceptable.
func ValidateOrderFields(f OrderFields) *ValidationError {
	errs := map[string]string{}

	name := strings.TrimSpace(f.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs["name"] = "name is required"
	case n < 3:
		errs["name"] = "name must be at least 3 characters"
	case n > 100:
		errs["name"] = "name must be at most 100 characters"
	case !namePattern.MatchString(name):
		errs["name"] = "name may only contain letters and spaces"
	}

	if strings.TrimSpace(f.Product) == "" {
		errs["product"] = "product must be selected"
	}

	switch {
	case f.Qty < 1:
		errs["qty"] = "quantity must be at least 1"
	case f.Qty > 100:
		errs["qty"] = "quantity must be at most 100"
	}

	addr := strings.TrimSpace(f.Address)
	switch n := utf8.RuneCountInString(addr); {
	case n == 0:
		errs["address"] = "address is required"
	case n < 10:
		errs["address"] = "address must be at least 10 characters"
	case n > 500:
		errs["address"] = "address must be at most 500 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

// ValidateCustomProduct checks the free-text product of a custom request.
func ValidateCustomProduct(v string) string {
	v = strings.TrimSpace(v)
	switch n := utf8.RuneCountInString(v); {
	case n == 0:
		return "requested product is required"
	case n < 3:
		return "requested product must be at least 3 characters"
	case n > 100:
		return "requested product must be at most 100 characters"
	}
	return ""
}
