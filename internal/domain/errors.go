package domain

import "errors"

var (
	// ErrMajorNotFound signals that no major record matched the lookup.
	ErrMajorNotFound = errors.New("major not found")
	// ErrEmptyQuestion signals a blank or whitespace-only question.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingQuotaExceeded signals an exhausted embedding budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
)
