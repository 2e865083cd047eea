// Package ipynb bridges Jupyter notebook files (nbformat 4) and the
// in-memory notebook model. It covers the subset of the format the
// projection engine needs: cell type, id, language and source.
package ipynb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/zugzugs/nbflat/internal/notebook"
)

// ErrInvalidNotebook indicates the input is not a parseable notebook file.
var ErrInvalidNotebook = errors.New("invalid ipynb document")

// Read parses an .ipynb file into an in-memory notebook. Cells without an
// id (nbformat < 4.5) are assigned a fresh uuid so every projected cell has
// a stable identifier for the session.
func Read(uri string, data []byte) (*notebook.Data, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: not valid JSON: %w", uri, ErrInvalidNotebook)
	}
	root := gjson.ParseBytes(data)
	if !root.Get("cells").IsArray() {
		return nil, fmt.Errorf("%s: missing cells array: %w", uri, ErrInvalidNotebook)
	}

	language := root.Get("metadata.kernelspec.language").String()
	if language == "" {
		language = root.Get("metadata.language_info.name").String()
	}
	if language == "" {
		language = "python"
	}

	nb := &notebook.Data{DocURI: uri, Language: language}
	for _, cell := range root.Get("cells").Array() {
		dc, err := readCell(cell, language)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", uri, err)
		}
		nb.CellList = append(nb.CellList, dc)
	}
	return nb, nil
}

func readCell(cell gjson.Result, defaultLanguage string) (*notebook.DataCell, error) {
	id := cell.Get("id").String()
	if id == "" {
		id = uuid.NewString()
	}

	var kind notebook.CellKind
	var language string
	switch cellType := cell.Get("cell_type").String(); cellType {
	case "code":
		kind = notebook.KindCode
		language = defaultLanguage
	case "markdown":
		kind = notebook.KindMarkup
		language = "markdown"
	case "raw":
		kind = notebook.KindMarkup
		language = "raw"
	default:
		return nil, fmt.Errorf("unknown cell_type %q: %w", cellType, ErrInvalidNotebook)
	}

	return &notebook.DataCell{
		CellID:   id,
		Lang:     language,
		CellKind: kind,
		Source:   joinSource(cell.Get("source")),
	}, nil
}

// joinSource concatenates an nbformat source field, which is either one
// string or an array of line strings carrying their own terminators.
func joinSource(source gjson.Result) string {
	if !source.IsArray() {
		return strings.TrimSuffix(source.String(), "\n")
	}
	var b strings.Builder
	for _, line := range source.Array() {
		b.WriteString(line.String())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Write serializes an in-memory notebook to nbformat 4.5 JSON.
func Write(nb *notebook.Data) ([]byte, error) {
	out := []byte(`{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[]}`)
	var err error
	if nb.Language != "" {
		out, err = sjson.SetBytes(out, "metadata.kernelspec.language", nb.Language)
		if err != nil {
			return nil, err
		}
	}
	for _, cell := range nb.CellList {
		out, err = sjson.SetBytes(out, "cells.-1", map[string]any{
			"cell_type": cellType(cell),
			"id":        cell.CellID,
			"metadata":  map[string]any{},
			"source":    sourceLines(cell.Source),
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func cellType(cell *notebook.DataCell) string {
	switch {
	case cell.CellKind == notebook.KindCode:
		return "code"
	case cell.Lang == "raw":
		return "raw"
	default:
		return "markdown"
	}
}

// sourceLines splits source into nbformat line strings, each but the last
// keeping its "\n" terminator.
func sourceLines(source string) []string {
	lines := notebook.SplitLines(source)
	out := make([]string, len(lines))
	for i, line := range lines {
		if i < len(lines)-1 {
			out[i] = line + "\n"
		} else {
			out[i] = line
		}
	}
	return out
}
