// Package record holds the storage-shaped rows of every table and the pure
// translation between those rows and the domain model.
//
// Rows mirror the database columns one to one (snake_case db tags, nullable
// columns as pointers, array columns as []string). Translation never fails:
// absent optional values become empty strings, nil officers or empty slices.
// Rows are validated with Validate before they are written.
package record
