package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Kotlang/sampledataGo/logger"
	"github.com/Kotlang/sampledataGo/models"
	"github.com/google/renameio/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type SampleDbInterface interface {
	Load() (*models.Dataset, error)
	Persist(ds *models.Dataset) error
}

// SampleDb is the directory of sample collection files.
type SampleDb struct {
	Dir string
}

func NewSampleDb(dir string) *SampleDb {
	return &SampleDb{Dir: dir}
}

// CollectionRepository reads and encodes one collection file.
type CollectionRepository struct {
	Name models.CollectionName
	Path string
}

func (db *SampleDb) Collection(name models.CollectionName) *CollectionRepository {
	return &CollectionRepository{
		Name: name,
		Path: filepath.Join(db.Dir, CollectionFileName(name)),
	}
}

// CollectionFileName returns the file holding the named collection.
func CollectionFileName(name models.CollectionName) string {
	return "mongodb-sample-" + string(name) + ".json"
}

func (r *CollectionRepository) Read() ([]bson.D, error) {
	raw, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.Name, err)
	}
	docs, err := DecodeCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.Name, err)
	}
	return docs, nil
}

// Load reads every collection. Any unreadable file fails the whole load.
func (db *SampleDb) Load() (*models.Dataset, error) {
	ds := &models.Dataset{}
	for _, name := range models.CollectionNames {
		docs, err := db.Collection(name).Read()
		if err != nil {
			return nil, err
		}
		*ds.Collection(name) = docs
		logger.Debug("Loaded collection", zap.String("collection", string(name)), zap.Int("records", len(docs)))
	}
	return ds, nil
}

type pendingWrite struct {
	repo    *CollectionRepository
	content []byte
	mode    os.FileMode
	file    *renameio.PendingFile
}

// Persist rewrites every collection or none of them. All encoding, target checks and temp
// writes happen before the first rename, so any failure up to that point leaves the
// original files untouched.
func (db *SampleDb) Persist(ds *models.Dataset) error {
	pending := make([]*pendingWrite, 0, len(models.CollectionNames))
	for _, name := range models.CollectionNames {
		content, err := EncodeCollection(*ds.Collection(name))
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		pending = append(pending, &pendingWrite{repo: db.Collection(name), content: content, mode: 0644})
	}

	for _, p := range pending {
		info, err := os.Lstat(p.repo.Path)
		if err == nil && !info.Mode().IsRegular() {
			return fmt.Errorf("persisting %s: %s is not a regular file", p.repo.Name, p.repo.Path)
		}
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("persisting %s: %w", p.repo.Name, err)
		}
		if err == nil {
			p.mode = info.Mode().Perm()
		}
	}

	cleanup := func() {
		for _, p := range pending {
			if p.file != nil {
				p.file.Cleanup()
				p.file = nil
			}
		}
	}

	for _, p := range pending {
		file, err := renameio.NewPendingFile(p.repo.Path,
			renameio.WithTempDir(db.Dir), renameio.WithStaticPermissions(p.mode))
		if err != nil {
			cleanup()
			return fmt.Errorf("persisting %s: %w", p.repo.Name, err)
		}
		p.file = file
		if _, err := file.Write(p.content); err != nil {
			cleanup()
			return fmt.Errorf("persisting %s: %w", p.repo.Name, err)
		}
	}

	for i, p := range pending {
		if err := p.file.CloseAtomicallyReplace(); err != nil {
			cleanup()
			logger.Error("Rename failed after earlier collections were replaced",
				zap.String("collection", string(p.repo.Name)), zap.Int("replaced", i), zap.Error(err))
			return fmt.Errorf("persisting %s: %w", p.repo.Name, err)
		}
		p.file.Cleanup()
		p.file = nil
	}
	return nil
}
