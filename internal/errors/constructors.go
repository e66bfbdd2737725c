package errors

// Convenience constructors matching the pipeline's failure taxonomy. Each maps a
// stage failure to its category so callers never branch on message text.

// SheetParseError marks a row that could not be interpreted (bad date, bad shape).
// These exclude the row and never abort the batch.
func SheetParseError(message string) *PublishError {
	return New(CategorySheet, SeverityWarning, message)
}

// InvalidReference marks a content link that does not match the document-link grammar.
func InvalidReference(url string) *PublishError {
	return New(CategoryReference, SeverityError, "invalid document reference").WithContext("url", url)
}

// FetchError wraps a remote retrieval failure (document tree, image bytes).
func FetchError(err error, message string) *PublishError {
	return Wrap(err, CategoryFetch, SeverityError, message)
}

// RateLimited marks an image API throttle response; always retryable.
func RateLimited(message string) *PublishError {
	return Retryable(CategoryRateLimit, SeverityWarning, message)
}

// AssemblyError wraps an unexpected content shape during document assembly.
func AssemblyError(err error, message string) *PublishError {
	return Wrap(err, CategoryAssembly, SeverityError, message)
}

// LockContended signals another live run; the scheduler exits cleanly on it.
func LockContended(holder string) *PublishError {
	return New(CategoryLock, SeverityWarning, "another run holds the lease").WithContext("holder", holder)
}

// RetriesExhausted signals the scheduler gave up after its bounded attempts.
func RetriesExhausted(err error, attempts int) *PublishError {
	return Wrap(err, CategoryScheduler, SeverityFatal, "publishing attempts exhausted").
		WithContext("attempts", attempts)
}
