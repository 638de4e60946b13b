// Package querystate maps a FilterState to and from a URL query string.
//
// Unset fields are omitted when encoding and page 1 is never written, so the
// default filter encodes to the empty string. Decoding is total: unknown keys
// are ignored and malformed values fall back to their defaults.
package querystate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mrops-br/catalog-storefront/internal/domain"
)

// Recognized query keys
const (
	KeySearch   = "search"
	KeyCategory = "category"
	KeySort     = "sort"
	KeyPage     = "page"
)

// Root is the bare catalog location
const Root = "/"

// Encode serializes f into a query string without a leading '?'
func Encode(f domain.FilterState) string {
	return Apply(nil, f).Encode()
}

// Apply writes f into a copy of base. Recognized keys are set or removed;
// every other key in base is preserved.
func Apply(base url.Values, f domain.FilterState) url.Values {
	f = f.Normalized()
	out := make(url.Values, len(base)+4)
	for k, v := range base {
		out[k] = append([]string(nil), v...)
	}

	setOrDel(out, KeySearch, f.SearchQuery)
	setOrDel(out, KeyCategory, f.Category)
	setOrDel(out, KeySort, string(f.Sort))
	if f.Page > 1 {
		out.Set(KeyPage, strconv.Itoa(f.Page))
	} else {
		out.Del(KeyPage)
	}
	return out
}

func setOrDel(v url.Values, key, value string) {
	if value == "" {
		v.Del(key)
		return
	}
	v.Set(key, value)
}

// Decode parses a raw query string, with or without a leading '?'
func Decode(raw string) domain.FilterState {
	raw = strings.TrimPrefix(raw, "?")
	// ParseQuery keeps every pair it could parse alongside the first error
	values, _ := url.ParseQuery(raw)
	return DecodeValues(values)
}

// DecodeValues reads a FilterState from already-parsed query values
func DecodeValues(values url.Values) domain.FilterState {
	f := domain.DefaultFilter()
	if values == nil {
		return f
	}

	f.SearchQuery = values.Get(KeySearch)
	f.Category = values.Get(KeyCategory)
	if sort, ok := domain.ParseSortOrder(values.Get(KeySort)); ok {
		f.Sort = sort
	}
	if page, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyPage))); err == nil && page >= 1 && page <= domain.MaxPage {
		f.Page = page
	}
	return f
}

// Location returns the navigable URL for f under root
func Location(root string, f domain.FilterState) string {
	return LocationWith(root, nil, f)
}

// LocationWith is Location with extra query keys carried over from base
func LocationWith(root string, base url.Values, f domain.FilterState) string {
	if root == "" {
		root = Root
	}
	encoded := Apply(base, f).Encode()
	if encoded == "" {
		return root
	}
	return root + "?" + encoded
}
