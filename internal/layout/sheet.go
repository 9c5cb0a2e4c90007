package layout

import (
	"fmt"
	"os"
)

// Sheet is a category grid kept outside the process. Name identifies the sheet
// for the layout lease.
type Sheet interface {
	Name() string
	Load() (*MemoryGrid, error)
	Save(g *MemoryGrid) error
}

// FileSheet is a grid exported as CSV. It is saved to out, or back to path when out is empty.
type FileSheet struct {
	name string
	path string
	out  string
}

func NewFileSheet(name, path, out string) *FileSheet {
	if out == "" {
		out = path
	}
	return &FileSheet{name: name, path: path, out: out}
}

func (s *FileSheet) Name() string {
	return s.name
}

func (s *FileSheet) Load() (*MemoryGrid, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}

func (s *FileSheet) Save(g *MemoryGrid) error {
	f, err := os.Create(s.out)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.out, err)
	}
	if err := WriteCSV(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
