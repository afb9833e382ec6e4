// Package docstruct reconstructs an ordered, semantically tagged document
// from the flat element stream of a document extraction service.
//
// Basic usage:
//
//	doc, warnings, err := docstruct.Reconstruct(elements)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docstruct.FormatWarnings(warnings))
//	}
//
// Loading a service result and rendering it:
//
//	html, _, err := docstruct.Open("structuredData.json").
//	    NumberBlocks().
//	    Sanitize().
//	    HTML(ctx)
//
// The analysis stages live in the layout and tables packages; the render
// package turns a document into HTML, Markdown, JSON or text.
package docstruct

import (
	"context"
	"errors"

	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/source"
)

// ErrEmptyInput is returned when the element stream holds no elements
var ErrEmptyInput = layout.ErrEmptyInput

// Reconstruct runs the pipeline over elements with the default
// configuration. It fails only with ErrEmptyInput; every other anomaly
// is recovered and reported as a warning.
func Reconstruct(elements []model.PositionedElement) (*model.Document, []Warning, error) {
	return FromElements(elements).Document(context.Background())
}

// FromElements creates an Extractor over an element stream that is
// already in memory.
//
// Example:
//
//	md, _, err := docstruct.FromElements(elements).Markdown(ctx)
func FromElements(elements []model.PositionedElement) *Extractor {
	return &Extractor{
		elements: elements,
		options:  defaultOptions(),
	}
}

// Open creates an Extractor that loads a service result from disk. The
// file may be the JSON document or a zip archive holding it.
//
// Example:
//
//	doc, warnings, err := docstruct.Open("result.zip").Document(ctx)
func Open(path string) *Extractor {
	return FromSource(source.File{Path: path})
}

// FromSource creates an Extractor that loads its elements from src when a
// terminal operation runs.
func FromSource(src source.Source) *Extractor {
	e := &Extractor{
		src:     src,
		options: defaultOptions(),
	}
	if src == nil {
		e.err = errors.New("docstruct: nil source")
	}
	return e
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	data := docstruct.Must(render.JSON(doc, render.DefaultOptions()))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a terminal operation and panics if
// the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	html := docstruct.MustResult(docstruct.Open("result.json").HTML(ctx))
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
