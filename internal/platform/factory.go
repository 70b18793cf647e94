package platform

import (
	"github.com/aretw0/dogear/pkg/core"
)

// New opens the repository described by uri and opts and wraps it in a Service.
//
//	svc, err := dogear.New("", dogear.WithReadOnly(true))
//
// The uri is adapter-specific: a database file for "sqlite", ignored by "memory".
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}
	return core.NewService(repo), nil
}
