package document

import (
	"encoding/json"
	"strings"

	"github.com/matthew-brett/oktools/internal/domain"
)

// IpynbReader extracts code cells from Jupyter notebooks (nbformat 4).
type IpynbReader struct{}

// NewIpynbReader creates a new IpynbReader.
func NewIpynbReader() *IpynbReader {
	return &IpynbReader{}
}

// SupportedExtensions returns the file extensions this reader handles.
func (r *IpynbReader) SupportedExtensions() []string {
	return []string{".ipynb"}
}

type notebook struct {
	Cells    []notebookCell `json:"cells"`
	Metadata struct {
		Kernelspec struct {
			Language string `json:"language"`
		} `json:"kernelspec"`
	} `json:"metadata"`
	NBFormat int `json:"nbformat"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// Read decodes the notebook JSON and returns its code cells. Notebook JSON
// carries no line positions, so cells report line 0.
func (r *IpynbReader) Read(path string, content []byte) ([]Cell, error) {
	var nb notebook
	if err := json.Unmarshal(content, &nb); err != nil {
		return nil, domain.NewError(domain.PhaseRead, path, 0, "not a valid notebook", err)
	}

	var cells []Cell
	for _, nc := range nb.Cells {
		if nc.CellType != "code" {
			continue
		}
		source, err := cellSource(nc.Source)
		if err != nil {
			return nil, domain.NewError(domain.PhaseRead, path, 0, "malformed cell source", err)
		}
		cells = append(cells, Cell{
			Source:   source,
			Language: nb.Metadata.Kernelspec.Language,
		})
	}
	return cells, nil
}

// cellSource handles the two nbformat spellings of a source: a single string
// or an array of lines with embedded newlines.
func cellSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", err
	}
	return strings.Join(lines, ""), nil
}
