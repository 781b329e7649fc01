// Package types defines the Catalog and Table interfaces, the stored entity
// types (samples and schemas), and the standard errors of the kindof
// catalog.
package types
