package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown normaliser or index type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Routing Errors.

	// ErrUnroutable indicates the event names a content type that is not indexed.
	// Callers acknowledge such events without doing anything.
	ErrUnroutable = errors.New("content type is not indexed")

	// ErrPathNotFound indicates no sitemap entry matched the page.
	ErrPathNotFound = errors.New("path not found in sitemap")

	// Collaborator Errors.

	// ErrRateLimited indicates the content source rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrContentSourceUnavailable indicates the content source is not configured.
	ErrContentSourceUnavailable = errors.New("content source unavailable")

	// ErrIndexUnavailable indicates the search index is not configured.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// Queue Errors.

	// ErrQueueFull indicates the in-memory queue cannot take more work.
	// The task stays persisted and is picked up by the next drain.
	ErrQueueFull = errors.New("queue full")

	// ErrQueueClosed indicates the queue has been stopped.
	ErrQueueClosed = errors.New("queue closed")
)
