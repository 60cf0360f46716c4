package story

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/gamebook/internal/telemetry"
)

// Store supplies fully materialized stories.
type Store interface {
	Fetch(ctx context.Context) ([]*Story, error)
}

// FSStore reads story files from a filesystem, such as Embedded() or os.DirFS.
type FSStore struct {
	fsys  fs.FS
	files []string
}

// NewFSStore creates a store over fsys. With no files, every story file in the
// root of fsys is read in name order.
func NewFSStore(fsys fs.FS, files ...string) *FSStore {
	return &FSStore{fsys: fsys, files: files}
}

// Fetch loads and validates the configured stories.
func (s *FSStore) Fetch(ctx context.Context) ([]*Story, error) {
	_, span := telemetry.Tracer("story").Start(ctx, "story.fetch_fs")
	defer span.End()

	files := s.files
	if len(files) == 0 {
		var err error
		files, err = storyFiles(s.fsys)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}
	span.SetAttributes(attribute.Int("story.files", len(files)))

	stories := make([]*Story, 0, len(files))
	for _, name := range files {
		st, err := Load(s.fsys, name)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		stories = append(stories, st)
	}

	if err := checkAll(stories); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return stories, nil
}

// storyFiles lists the story files in the root of fsys, sorted by name.
func storyFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list story files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsStoryFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, errors.New("no story files found")
	}
	return files, nil
}

// checkAll validates every story and rejects duplicate ids.
func checkAll(stories []*Story) error {
	var errs []error
	for _, st := range stories {
		if err := Validate(st); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := NewRegistry(stories); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
