package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// labelPlaceholder is the numeral printed on the reference template; every
// generated label replaces it with the allocated id.
const labelPlaceholder = "12345"

// LabelTemplate holds the official ZPL label template (gabarito). The file
// is read once at startup; rendering is a plain placeholder substitution
// because the printer consumes the ZPL byte-for-byte.
type LabelTemplate struct {
	path    string
	content string
}

func LoadLabelTemplate(path string) (*LabelTemplate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("label template %s: %w", path, err)
	}
	if !strings.Contains(string(raw), labelPlaceholder) {
		return nil, fmt.Errorf("label template %s: placeholder %q not found", path, labelPlaceholder)
	}
	return &LabelTemplate{path: path, content: string(raw)}, nil
}

// Path returns the template file location (reported in responses and used
// directly by the printer test endpoint).
func (t *LabelTemplate) Path() string { return t.path }

// Render substitutes the placeholder with id.
func (t *LabelTemplate) Render(id int64) string {
	return strings.ReplaceAll(t.content, labelPlaceholder, strconv.FormatInt(id, 10))
}

// WriteRendered renders the label for id into a temp file and returns its
// path plus a cleanup func. lpr reads from the filesystem, so the rendered
// document has to exist on disk for the duration of the submissions.
func (t *LabelTemplate) WriteRendered(id int64) (string, func(), error) {
	f, err := os.CreateTemp("", "etiqueta_*.zpl")
	if err != nil {
		return "", nil, fmt.Errorf("label temp file: %w", err)
	}
	if _, err := f.WriteString(t.Render(id)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("label temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("label temp file: %w", err)
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
