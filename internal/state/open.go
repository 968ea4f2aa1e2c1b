package state

import (
	"fmt"
	"strings"
)

// Open 按后端类型创建存储
func Open(backend, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewFileRepository(path), nil
	case BackendSQLite:
		return NewSQLiteRepository(path)
	default:
		return nil, fmt.Errorf("unknown state backend: %s", backend)
	}
}
