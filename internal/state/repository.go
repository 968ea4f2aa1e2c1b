package state

// Repository 状态存储（JSON 文件或 SQLite）
//
// Load 在无历史数据时返回 (nil, nil)。
type Repository interface {
	Load() (*Envelope, error)
	Save(env *Envelope) error
	Location() string
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)
