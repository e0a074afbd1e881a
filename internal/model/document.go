// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package model

import (
	"github.com/google/uuid"
)

// Document is a unit of text ready for indexing into the document store.
// Meta carries document-level metadata; by convention "name" identifies
// the source file or dataset title.
type Document struct {
	ID   string                 `json:"id"`
	Text string                 `json:"text"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// Label is a gold QA annotation tied to a Document, as parsed from a
// SQuAD-style dataset.
type Label struct {
	Question          string `json:"question"`
	Answer            string `json:"answer"`
	IsCorrectAnswer   bool   `json:"is_correct_answer"`
	IsCorrectDocument bool   `json:"is_correct_document"`
	DocumentID        string `json:"document_id"`
	OffsetStartInDoc  int    `json:"offset_start_in_doc"`
	NoAnswer          bool   `json:"no_answer"`
	Origin            string `json:"origin"`
}

// NewDocument builds a Document with a fresh id. Meta may be nil.
func NewDocument(text string, meta map[string]interface{}) Document {
	return Document{
		ID:   uuid.New().String(),
		Text: text,
		Meta: meta,
	}
}

// CopyMeta returns a shallow copy of a metadata map so that documents
// emitted from the same source do not share mutable state.
func CopyMeta(meta map[string]interface{}) map[string]interface{} {
	if meta == nil {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
