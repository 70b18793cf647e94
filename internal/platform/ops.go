package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/dogear/pkg/adapters/memory"
	"github.com/aretw0/dogear/pkg/adapters/sqlite"
	"github.com/aretw0/dogear/pkg/core"
)

// Init builds and initializes the repository selected by opts.
// An empty uri with the sqlite adapter resolves to DefaultDatabasePath.
// A repository passed with WithRepository is initialized too.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo := o.repository
	if repo == nil {
		var err error
		switch o.adapter {
		case AdapterSQLite:
			repo, err = initSQLite(uri, o)
		case AdapterMemory:
			repo = initMemory(o)
		default:
			return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func initSQLite(path string, o *options) (core.Repository, error) {
	if path == "" {
		resolved, err := DefaultDatabasePath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	if o.logger != nil {
		o.logger.Debug("using sqlite adapter", "path", path, "read_only", o.readOnly)
	}

	return sqlite.NewRepository(sqlite.Config{
		Path:         path,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
		Debounce:     o.debounce,
	}), nil
}

func initMemory(o *options) core.Repository {
	return memory.NewRepository(
		memory.WithReadOnly(o.readOnly),
		memory.WithBookmarks(o.seed...),
	)
}
