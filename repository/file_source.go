package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"kawasaki_site/models"
)

// FileSource reads the static dataset from disk: one JSON array per
// ward under <dir>/facilities, one per month under <dir>/menus. This is
// the development backend and the shape the replacement dataset ships
// in.
type FileSource struct {
	dir string
}

// NewFileSource points the source at a data directory.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (s *FileSource) LoadWard(_ context.Context, ward string) ([]models.RawRecord, error) {
	var records []models.RawRecord
	if err := s.readJSON(filepath.Join(s.dir, "facilities", ward+".json"), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *FileSource) LoadMonth(_ context.Context, month string) ([]models.RawMenu, error) {
	var menus []models.RawMenu
	if err := s.readJSON(filepath.Join(s.dir, "menus", month+".json"), &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// readJSON decodes one partition file. A missing file is an empty
// partition (the replaced dataset may legitimately drop one); anything
// else is an upstream failure.
func (s *FileSource) readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &models.UpstreamError{Op: "file: read " + path, Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &models.UpstreamError{Op: "file: parse " + path, Err: err}
	}
	return nil
}
