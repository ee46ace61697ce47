package guide

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Payload is the structured JSON document written for every guide. Field
// names are part of the contract with the site that consumes them.
type Payload struct {
	Title      string            `json:"title"`
	Course     string            `json:"course"`
	CourseSlug string            `json:"courseSlug"`
	Tags       []string          `json:"tags"`
	Tables     []NormalizedTable `json:"tables"`
	CellData   AnnotationMap     `json:"cellData"`
}

// LoadPreviousAnnotations reads the annotation map persisted by an earlier
// run of the same guide. A missing, unreadable or corrupt store is treated
// as a first run: conversion must never fail because of old state. Entries
// with malformed cell identifiers are dropped with a warning.
func LoadPreviousAnnotations(path string, log *zap.Logger) AnnotationMap {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Unable to read previous guide data, starting fresh", zap.String("file", path), zap.Error(err))
		}
		return AnnotationMap{}
	}

	var prev Payload
	if err := json.Unmarshal(data, &prev); err != nil {
		log.Warn("Previous guide data is not valid JSON, starting fresh", zap.String("file", path), zap.Error(err))
		return AnnotationMap{}
	}

	m := make(AnnotationMap, len(prev.CellData))
	for id, entry := range prev.CellData {
		if !ValidCellID(id) {
			log.Warn("Dropping annotation with malformed cell id", zap.String("file", path), zap.String("id", id))
			continue
		}
		m[id] = entry
	}
	return m
}

// WritePayload stores the structured document, creating directories as
// needed. Output is indented and ends with a newline.
func WritePayload(path string, payload *Payload) error {
	return writeJSONValue(path, payload)
}

func writeJSONValue(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeArtifact(path, append(data, '\n'))
}

// WriteFragment stores the HTML fragment, appending a final newline when the
// markup does not already end with one.
func WriteFragment(path, markup string) error {
	if !strings.HasSuffix(markup, "\n") {
		markup += "\n"
	}
	return writeArtifact(path, []byte(markup))
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
