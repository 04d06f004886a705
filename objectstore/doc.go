// Package objectstore is a thin S3 wrapper: one PutObject per write, one
// GetObject per read, errors returned as-is with bucket and key context.
package objectstore
