package spritefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/sprite-toolkit/pkg/errors"
)

// WithExtension appends .ssp to path unless it already ends with it.
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// ReadFile loads a project from disk.
func ReadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO("read", path, err)
	}
	p, err := ParseJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.GetCode(err), "cannot load "+filepath.Base(path))
	}
	return p, nil
}

// WriteFile stores a project as indented JSON.
func WriteFile(path string, p *Project) error {
	data, err := ToJSON(p, true)
	if err != nil {
		return errors.IO("encode", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.IO("write", path, err)
	}
	return nil
}
