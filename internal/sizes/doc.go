// Package sizes holds the catalog of named target sizes and the registry of
// per-size processing info (zoom, quality, filters).
//
// A Catalog is ordered: variants are produced in the order sizes appear in
// the catalog file. Registry entries merge on re-registration with the first
// value set for a key winning.
package sizes
