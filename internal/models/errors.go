package models

import "errors"

// Common errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists (e.g., duplicate path)
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrNoFieldsToUpdate is returned when no fields are provided for an update
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrTenantNotResolved is returned when no strategy could resolve a tenant
	ErrTenantNotResolved = errors.New("tenant not resolved")

	// ErrRedirectLoop is returned when creating a redirect whose target leads
	// back to the source path
	ErrRedirectLoop = errors.New("redirect would create a loop")

	// ErrAlreadyRedirected is returned when transitioning an entry that is
	// already in the redirected state
	ErrAlreadyRedirected = errors.New("entry is already redirected")

	// ErrInvalidCrawlDelay is returned when a robots crawl delay is negative
	ErrInvalidCrawlDelay = errors.New("crawl delay must be >= 0")

	// ErrInvalidSitemapURL is returned when a robots sitemap URL is malformed
	ErrInvalidSitemapURL = errors.New("sitemap URL is not well-formed")

	// ErrGenerationLocked is returned when another run holds the generation
	// lock for the same tenant and sitemap type
	ErrGenerationLocked = errors.New("generation already in progress")
)
