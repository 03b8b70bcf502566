package rag

import "errors"

var (
	// ErrEmptyIndex means the vector store holds no documents at all.
	// Distinct from a filter that matches nothing, which is an empty
	// result and not an error.
	ErrEmptyIndex = errors.New("knowledge base is empty")

	ErrEmptyQuestion = errors.New("question is required")
)
