// Package migrations contains the storefront schema. Each file registers
// its migrations from init(); cmd/shirtshop imports the package so the
// registry is populated before any migrate command runs.
package migrations
