// Package model defines the domain types shared across spicefx: currencies,
// the read-only catalog, evaluated amounts and conversion requests/results.
package model
