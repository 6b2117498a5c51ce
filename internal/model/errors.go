package model

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every missing or invalid required field in a
// single message, so the caller can fix all problems in one pass.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: missing required fields: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError creates a validation error for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RenderError represents a font or layout failure while producing a PDF.
// Fatal for the current call; the background pipeline maps it to "rejected".
type RenderError struct {
	Document string
	Stage    string
	Cause    error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render failed [%s] %s: %v", e.Document, e.Stage, e.Cause)
	}
	return fmt.Sprintf("render failed [%s] %s", e.Document, e.Stage)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new render error.
func NewRenderError(document, stage string, cause error) *RenderError {
	return &RenderError{Document: document, Stage: stage, Cause: cause}
}

// ResourceMissingError marks an expected file (persisted PDF, signature
// image) as absent. Recovered by regeneration or skip, never fatal to the
// end caller.
type ResourceMissingError struct {
	Path string
}

func (e *ResourceMissingError) Error() string {
	return fmt.Sprintf("resource missing: %s", e.Path)
}

// NewResourceMissingError creates a new resource-missing error.
func NewResourceMissingError(path string) *ResourceMissingError {
	return &ResourceMissingError{Path: path}
}

// UpstreamDataError marks a referenced record as not found. Surfaced as a
// not-found condition to the synchronous caller before background work starts.
type UpstreamDataError struct {
	Kind string
	ID   uint
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NewUpstreamDataError creates a new upstream-data error.
func NewUpstreamDataError(kind string, id uint) *UpstreamDataError {
	return &UpstreamDataError{Kind: kind, ID: id}
}
