package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/config"
	"ledger/db"
	"ledger/logs"
	"ledger/vm"
)

var (
	applyCommit  bool
	applyRevOut  string
	applyMutsOut string
)

var applyCmd = &cobra.Command{
	Use:   "apply <entry.json>",
	Short: "Apply an entry and print per-transaction results",
	Long: `Apply an entry file against the contract state.

By default the database transaction is discarded after printing results
(dry run). Pass --commit to persist it.

Example:
  ledger apply entry.json
  ledger apply entry.json --commit --rev-out entry.rev`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyCommit, "commit", false, "commit the transaction")
	applyCmd.Flags().StringVar(&applyRevOut, "rev-out", "", "write the reverse mutation log to this file")
	applyCmd.Flags().StringVar(&applyMutsOut, "muts-out", "", "write the forward mutation log to this file")
}

type applyReport struct {
	Height    uint64        `json:"height"`
	Results   []vm.TxResult `json:"results"`
	Muts      int           `json:"muts"`
	MutsRev   int           `json:"muts_rev"`
	Committed bool          `json:"committed"`
}

func runApply(cmd *cobra.Command, args []string) error {
	entry, txus, err := loadEntryFile(args[0])
	if err != nil {
		return err
	}
	return withStore(func(cfg *config.Config, s db.Store) error {
		x, err := vm.NewExecutor(cfg)
		if err != nil {
			return err
		}
		txn, err := s.NewTxn()
		if err != nil {
			return err
		}
		defer txn.Discard()

		out, err := x.ApplyEntry(s, txn, entry, txus)
		if err != nil {
			return err
		}
		if applyCommit {
			if err := out.Txn.Commit(); err != nil {
				return err
			}
			logs.Info("[CLI] committed entry %d with %d txs", entry.Height, len(txus))
		}
		if err := writeLog(applyRevOut, out.MutsRev); err != nil {
			return err
		}
		if err := writeLog(applyMutsOut, out.Muts); err != nil {
			return err
		}

		report := applyReport{
			Height:    entry.Height,
			Results:   out.Results,
			Muts:      len(out.Muts),
			MutsRev:   len(out.MutsRev),
			Committed: applyCommit,
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	})
}

func writeLog(path string, ms []vm.Mutation) error {
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, vm.EncodeMutations(ms), 0o644); err != nil {
		return fmt.Errorf("write mutation log: %w", err)
	}
	return nil
}
