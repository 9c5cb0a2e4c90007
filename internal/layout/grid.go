// Package layout locates the variable-height sections of a category detail grid.
package layout

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Grid is a read-only view of a spreadsheet. Rows and columns are 1-based.
type Grid interface {
	Cell(row, col int) string
	LastRow() int
}

// MemoryGrid is a Grid held in memory.
type MemoryGrid struct {
	rows [][]string
}

func NewMemoryGrid(rows [][]string) *MemoryGrid {
	return &MemoryGrid{rows: rows}
}

func (g *MemoryGrid) Cell(row, col int) string {
	if row < 1 || row > len(g.rows) {
		return ""
	}
	cells := g.rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}

// LastRow returns the last row that has at least one non-blank cell.
func (g *MemoryGrid) LastRow() int {
	for i := len(g.rows) - 1; i >= 0; i-- {
		for _, cell := range g.rows[i] {
			if strings.TrimSpace(cell) != "" {
				return i + 1
			}
		}
	}
	return 0
}

// Set writes a cell, growing the grid as needed.
func (g *MemoryGrid) Set(row, col int, value string) {
	for len(g.rows) < row {
		g.rows = append(g.rows, nil)
	}
	cells := g.rows[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	g.rows[row-1] = cells
}

// Rows returns the underlying rows. The slice is shared with the grid.
func (g *MemoryGrid) Rows() [][]string {
	return g.rows
}

// ReadCSV loads a grid exported from the spreadsheet as CSV.
func ReadCSV(r io.Reader) (*MemoryGrid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read grid csv: %w", err)
	}
	return NewMemoryGrid(rows), nil
}

// WriteCSV writes the grid back in the format ReadCSV accepts.
func WriteCSV(w io.Writer, g *MemoryGrid) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(g.rows); err != nil {
		return fmt.Errorf("failed to write grid csv: %w", err)
	}
	return nil
}
