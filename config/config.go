// config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// Config 主配置结构
type Config struct {
	Database DatabaseConfig
	Exec     ExecConfig
	Fee      FeeConfig
	Log      LogConfig
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Backend  string // "badger" | "leveldb"
	Path     string
	InMemory bool

	// BadgerDB配置
	ValueLogFileSize int64 // 64 << 20 (64MB)
	NumMemtables     int   // 2
	NumCompactors    int   // 2

	// 单个事务最多缓存约 15% MaxTableSize 的写入，超出返回 ErrTxnTooBig
	MaxTableSize int64 // 64 << 20

	// LevelDB配置
	BlockCacheSize int // 8 << 20
}

// ExecConfig 交易执行配置
type ExecConfig struct {
	// 每个 action 的执行点数预算
	CallExecPoints uint64 // 10_000_000
	// 每个执行点的价格（最小单位，十进制字符串）
	ExecCostPerPoint string
	// 块末记账（segment vr hash / epoch 切换），默认关闭
	EntryExit       bool
	SegmentInterval uint64 // 1000
	EpochInterval   uint64 // 100_000
	// 公钥校验结果 LRU 容量
	KeyCacheSize int
}

// FeeRate 某个 epoch 起生效的每字节费率
type FeeRate struct {
	FromEpoch   uint64
	CostPerByte string
}

// FeeConfig 交易字节费配置
type FeeConfig struct {
	Symbol          string // "AMA"
	CostPerByte     string // 最小单位，十进制字符串
	TxOverheadBytes int
	Schedule        []FeeRate
	BurnAddress     string // base58，48 字节
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string // trace|debug|verbose|info|warn|error
	File       string // 为空则输出到 stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Backend:          "badger",
			Path:             "data/contractstate",
			ValueLogFileSize: 64 << 20,
			NumMemtables:     2,
			NumCompactors:    2,
			MaxTableSize:     64 << 20,
			BlockCacheSize:   8 << 20,
		},
		Exec: ExecConfig{
			CallExecPoints:   10_000_000,
			ExecCostPerPoint: "0.001",
			EntryExit:        false,
			SegmentInterval:  1000,
			EpochInterval:    100_000,
			KeyCacheSize:     4096,
		},
		Fee: FeeConfig{
			Symbol:          "AMA",
			CostPerByte:     "1",
			TxOverheadBytes: 0,
			BurnAddress:     base58.Encode(make([]byte, 48)),
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// LoadFromFile 从 TOML 文件加载配置，未出现的字段保留默认值
// path 为空时返回默认配置
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 验证配置合法性
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case "badger", "leveldb":
	default:
		return fmt.Errorf("unknown database backend %q", c.Database.Backend)
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database path required unless InMemory is set")
	}
	if c.Exec.CallExecPoints == 0 {
		return fmt.Errorf("CallExecPoints must be positive")
	}
	if err := nonNegativeDecimal("ExecCostPerPoint", c.Exec.ExecCostPerPoint); err != nil {
		return err
	}
	if c.Exec.SegmentInterval == 0 || c.Exec.EpochInterval == 0 {
		return fmt.Errorf("SegmentInterval and EpochInterval must be positive")
	}
	if c.Fee.Symbol == "" {
		return fmt.Errorf("fee symbol must not be empty")
	}
	if err := nonNegativeDecimal("CostPerByte", c.Fee.CostPerByte); err != nil {
		return err
	}
	if c.Fee.TxOverheadBytes < 0 {
		return fmt.Errorf("TxOverheadBytes must be non-negative")
	}
	var last uint64
	for i, r := range c.Fee.Schedule {
		if i > 0 && r.FromEpoch <= last {
			return fmt.Errorf("fee schedule must be sorted by FromEpoch (index %d)", i)
		}
		last = r.FromEpoch
		if err := nonNegativeDecimal("Schedule.CostPerByte", r.CostPerByte); err != nil {
			return err
		}
	}
	if _, err := c.Fee.Burn(); err != nil {
		return err
	}
	return nil
}

// Burn 解码燃烧地址
func (f FeeConfig) Burn() ([]byte, error) {
	raw, err := base58.Decode(f.BurnAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid burn address: %w", err)
	}
	if len(raw) != 48 {
		return nil, fmt.Errorf("burn address must be 48 bytes, got %d", len(raw))
	}
	return raw, nil
}

func nonNegativeDecimal(name, raw string) error {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if d.Sign() < 0 {
		return fmt.Errorf("%s must be non-negative", name)
	}
	return nil
}
