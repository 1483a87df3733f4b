package main

import (
	"io"

	"github.com/spf13/cobra"

	"ledger/config"
	"ledger/db"
	"ledger/logs"
)

var (
	cfgFile  string
	dataPath string
	backend  string
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Apply entries to contract state",
	Long: `ledger applies an ordered batch of transactions (an entry) to the
contract state store, and inspects the resulting state.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (TOML)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "override database path")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "override database backend (badger|leveldb)")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(nonceCmd)
	rootCmd.AddCommand(creditCmd)
	rootCmd.AddCommand(dumpCmd)
}

// loadConfig 读配置文件，命令行参数覆盖，顺便初始化日志
func loadConfig() (*config.Config, io.Closer, error) {
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if dataPath != "" {
		cfg.Database.Path = dataPath
	}
	if backend != "" {
		cfg.Database.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := logs.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	logs.SetLevel(level)
	var closer io.Closer
	if cfg.Log.File != "" {
		closer = logs.SetFile(logs.FileOptions{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
	}
	return cfg, closer, nil
}

// withStore 打开存储执行 fn，结束后关闭
func withStore(fn func(cfg *config.Config, s db.Store) error) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	s, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cfg, s)
}
