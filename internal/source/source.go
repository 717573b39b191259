// Package source provides the row sets served by the report endpoints. The
// rows arrive already filtered: a source never queries a database itself.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/marquage/expedition/internal/report"
)

// Query identifies a requested row set.
type Query struct {
	// Chosen selects the weight column of the result set.
	Chosen string
	Period report.Period
}

// Source returns the rows of a report.
type Source interface {
	Rows(ctx context.Context, q Query) ([]report.Row, error)
}

// Static serves a fixed row set.
type Static []report.Row

func (s Static) Rows(ctx context.Context, _ Query) ([]report.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Func adapts a function to Source.
type Func func(ctx context.Context, q Query) ([]report.Row, error)

func (f Func) Rows(ctx context.Context, q Query) ([]report.Row, error) {
	return f(ctx, q)
}

// File reads a JSON export of the result set on every call.
type File struct {
	Path string
}

func (f File) Rows(ctx context.Context, _ Query) ([]report.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rows file: %w", err)
	}
	defer fh.Close()

	rows, err := DecodeRows(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return rows, nil
}

// DecodeRows reads rows from either a JSON array of records or an object
// carrying them under "rows".
func DecodeRows(r io.Reader) ([]report.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty rows document")
	}

	var rows []report.Row
	if data[0] == '{' {
		var wrapped struct {
			Rows []report.Row `json:"rows"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode rows: %w", err)
		}
		rows = wrapped.Rows
	} else if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	if rows == nil {
		rows = []report.Row{}
	}
	return rows, nil
}
