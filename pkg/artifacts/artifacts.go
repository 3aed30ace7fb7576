// Package artifacts stores files produced by a run, such as failure screenshots, under a
// directory named after the run id.
package artifacts

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/hooks"
	"github.com/bf2fc6cc711aee1a0c2a/storefront-e2e/pkg/logger"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// IDGenerator generates run ids.
type IDGenerator interface {
	Generate() string
}

var _ IDGenerator = idGenerator{}

type idGenerator struct {
	prefix string
}

// NewIDGenerator create a new default implementation of IDGenerator.
func NewIDGenerator(prefix string) IDGenerator {
	return idGenerator{
		prefix: prefix,
	}
}

func (i idGenerator) Generate() string {
	return i.prefix + xid.New().String()
}

// Store writes artifacts of a single run to <dir>/<runID>/.
type Store struct {
	dir   string
	runID string
}

func NewStore(dir string, runID string) *Store {
	return &Store{dir: dir, runID: runID}
}

func (s *Store) RunID() string {
	return s.runID
}

// Path returns where an artifact with the given relative name is stored.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, s.runID, filepath.FromSlash(name))
}

// Save writes body to the artifact named name, creating parent directories as needed.
func (s *Store) Save(name string, body []byte) (string, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(err, "creating artifact directory for %s", name)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing artifact %s", name)
	}
	return path, nil
}

// Attach persists an attachment under screenshots/.
func (s *Store) Attach(ctx context.Context, attachment hooks.Attachment) (context.Context, error) {
	path, err := s.Save(filepath.ToSlash(filepath.Join("screenshots", attachment.Name)), attachment.Body)
	if err != nil {
		return ctx, err
	}
	logger.NewLogger(ctx).V(2).Infof("Saved %s to %s", attachment.Name, path)
	return ctx, nil
}

var _ hooks.Attacher = &Store{}
