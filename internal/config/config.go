package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Plan   PlanConfig   `toml:"plan"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir   string `toml:"data_dir"`
	PlanPath  string `toml:"plan_path"`  // 训练计划 CSV / XLSX
	StateFile string `toml:"state_file"` // 相对 data_dir，或绝对路径；为空按 backend 取默认
	Backend   string `toml:"backend"`    // json / sqlite
}

// PlanConfig 训练计划读取配置
type PlanConfig struct {
	Sheet string `toml:"sheet"` // xlsx 工作表名，为空取第一个
}

// 默认状态文件名
const (
	DefaultJSONStateFile   = "plan_state.json"
	DefaultSQLiteStateFile = "plan_state.db"
)

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
	Path          string
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:  "data",
			PlanPath: "sessions_temp.csv",
			Backend:  "json",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadConfigFrom(filepath.Join(exeDir, "config.toml"))
}

// LoadConfigFrom 从指定路径加载配置，文件不存在时使用默认配置
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于测试 / 本地运行）
func applyEnv(config *AppConfig) {
	if v := os.Getenv("TRAINPLAN_PLAN_PATH"); v != "" {
		config.Data.PlanPath = v
	}
	if v := os.Getenv("TRAINPLAN_STATE_BACKEND"); v != "" {
		config.Data.Backend = v
	}
}

// ResolveDataDir 数据目录：绝对路径原样使用，否则相对可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// StatePath 状态文件路径；未配置 state_file 时按后端取默认文件名
func StatePath(config *AppConfig) string {
	name := config.Data.StateFile
	if name == "" {
		name = defaultStateFile(config.Data.Backend)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(ResolveDataDir(config), name)
}

func defaultStateFile(backend string) string {
	if strings.EqualFold(strings.TrimSpace(backend), "sqlite") {
		return DefaultSQLiteStateFile
	}
	return DefaultJSONStateFile
}

// ExportsDir 导出目录
func ExportsDir(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), "exports")
}
