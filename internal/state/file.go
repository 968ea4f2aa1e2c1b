package state

import (
	"os"
	"path/filepath"
)

// FileRepository 以 JSON 文件保存状态
type FileRepository struct {
	path string
}

// NewFileRepository 创建 JSON 文件存储
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Location 文件路径
func (r *FileRepository) Location() string {
	return r.path
}

// Load 读取状态文件，不存在时返回 nil
func (r *FileRepository) Load() (*Envelope, error) {
	if !fileExists(r.path) {
		return nil, nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save 原子写入：先写临时文件再重命名
func (r *FileRepository) Save(env *Envelope) error {
	data, err := Encode(env)
	if err != nil {
		return err
	}
	return writeBytesAtomic(r.path, data)
}

// Close 无需释放资源
func (r *FileRepository) Close() error {
	return nil
}

func writeBytesAtomic(path string, data []byte) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := osWriteFile(tmp, data); err != nil {
		return err
	}
	return osRename(tmp, path)
}

var (
	osWriteFile = func(path string, data []byte) error { return os.WriteFile(path, data, 0644) }
	osRename    = func(old string, new string) error { return os.Rename(old, new) }
)

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
