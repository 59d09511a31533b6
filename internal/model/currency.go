package model

import (
	"fmt"
	"strings"
)

// CurrencyCode is an upper-case ISO 4217 style three letter code.
type CurrencyCode string

// ParseCurrencyCode normalizes a three letter code to upper case.
// It does not check catalog membership.
func ParseCurrencyCode(s string) (CurrencyCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !isAlpha3(s) {
		return "", fmt.Errorf("invalid currency code %q", s)
	}
	return CurrencyCode(s), nil
}

// IsCodeShaped reports whether s looks like a three letter code, ignoring case.
func IsCodeShaped(s string) bool {
	return isAlpha3(strings.ToUpper(s))
}

func isAlpha3(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Currency is a catalog entry.
type Currency struct {
	Code CurrencyCode
	Name string
}

// Label renders the entry the way pickers display it.
func (c Currency) Label() string {
	return fmt.Sprintf("%s - %s", c.Code, c.Name)
}

// Catalog is the ordered set of supported currencies. It is built once and
// never mutated, so concurrent readers need no synchronization.
type Catalog struct {
	index      map[CurrencyCode]int
	currencies []Currency
}

// NewCatalog builds a catalog preserving the source order. Duplicate codes
// keep their first occurrence.
func NewCatalog(currencies []Currency) Catalog {
	c := Catalog{
		index:      make(map[CurrencyCode]int, len(currencies)),
		currencies: make([]Currency, 0, len(currencies)),
	}
	for _, cur := range currencies {
		code := CurrencyCode(strings.ToUpper(string(cur.Code)))
		if _, dup := c.index[code]; dup {
			continue
		}
		c.index[code] = len(c.currencies)
		c.currencies = append(c.currencies, Currency{Code: code, Name: cur.Name})
	}
	return c
}

// Loaded reports whether the catalog holds any currency.
func (c Catalog) Loaded() bool {
	return len(c.currencies) > 0
}

// Len returns the number of currencies.
func (c Catalog) Len() int {
	return len(c.currencies)
}

// Contains reports membership, ignoring case.
func (c Catalog) Contains(code CurrencyCode) bool {
	_, ok := c.Lookup(code)
	return ok
}

// Lookup returns the catalog entry for code, ignoring case.
func (c Catalog) Lookup(code CurrencyCode) (Currency, bool) {
	i, ok := c.index[CurrencyCode(strings.ToUpper(string(code)))]
	if !ok {
		return Currency{}, false
	}
	return c.currencies[i], true
}

// IndexOf returns the position of code or -1.
func (c Catalog) IndexOf(code CurrencyCode) int {
	i, ok := c.index[CurrencyCode(strings.ToUpper(string(code)))]
	if !ok {
		return -1
	}
	return i
}

// Currencies returns a copy of the ordered entries.
func (c Catalog) Currencies() []Currency {
	out := make([]Currency, len(c.currencies))
	copy(out, c.currencies)
	return out
}
