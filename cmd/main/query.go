package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"ledger/config"
	"ledger/db"
	"ledger/keys"
	"ledger/types"
	"ledger/utils"
)

var dumpCategory string

var balanceCmd = &cobra.Command{
	Use:   "balance <pubkey-b58> [symbol]",
	Short: "Print an account balance",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, err := utils.DecodeBase58(args[0], types.PublicKeySize)
		if err != nil {
			return err
		}
		return withStore(func(cfg *config.Config, s db.Store) error {
			symbol := cfg.Fee.Symbol
			if len(args) > 1 {
				symbol = args[1]
			}
			v, err := readKey(s, keys.KeyBalance(pk, []byte(symbol)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), orZero(v))
			return nil
		})
	},
}

var nonceCmd = &cobra.Command{
	Use:   "nonce <pubkey-b58>",
	Short: "Print the last applied nonce of a signer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, err := utils.DecodeBase58(args[0], types.PublicKeySize)
		if err != nil {
			return err
		}
		return withStore(func(cfg *config.Config, s db.Store) error {
			v, err := readKey(s, keys.KeyNonce(pk))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), orZero(v))
			return nil
		})
	},
}

var creditCmd = &cobra.Command{
	Use:   "credit <pubkey-b58> <amount> [symbol]",
	Short: "Add to an account balance directly (genesis / devnet funding)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, err := utils.DecodeBase58(args[0], types.PublicKeySize)
		if err != nil {
			return err
		}
		amount, ok := new(big.Int).SetString(args[1], 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		return withStore(func(cfg *config.Config, s db.Store) error {
			symbol := cfg.Fee.Symbol
			if len(args) > 2 {
				symbol = args[2]
			}
			ns, err := s.Namespace(db.ContractState)
			if err != nil {
				return err
			}
			txn, err := s.NewTxn()
			if err != nil {
				return err
			}
			defer txn.Discard()
			key := ns.Key(keys.KeyBalance(pk, []byte(symbol)))
			cur, err := txn.Get(key)
			if err != nil {
				return err
			}
			bal := new(big.Int)
			if cur != nil {
				if _, ok := bal.SetString(string(cur), 10); !ok {
					return fmt.Errorf("stored balance %q is not an integer", cur)
				}
			}
			bal.Add(bal, amount)
			if err := txn.Set(key, []byte(bal.String())); err != nil {
				return err
			}
			if err := txn.Commit(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bal.String())
			return nil
		})
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "List contract state keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(cfg *config.Config, s db.Store) error {
			return db.View(s, func(txn db.Txn, ns db.Namespace) error {
				return txn.Iterate(ns.Key(nil), func(k, v []byte) error {
					key, _ := ns.Strip(k)
					cat := keys.CategorizeKey(key)
					if dumpCategory != "" && cat.String() != dumpCategory {
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s = %s\n", cat, renderKey(key), renderValue(v))
					return nil
				})
			})
		})
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpCategory, "category", "", "only show one category (nonce|balance|coin|contract|epoch)")
}

func readKey(s db.Store, key []byte) ([]byte, error) {
	var out []byte
	err := db.View(s, func(txn db.Txn, ns db.Namespace) error {
		v, err := txn.Get(ns.Key(key))
		out = v
		return err
	})
	return out, err
}

func orZero(v []byte) string {
	if v == nil {
		return "0"
	}
	return string(v)
}

// renderKey 把 key 里的公钥部分换成 base58
func renderKey(key []byte) string {
	if account, symbol, ok := keys.SplitBalanceKey(key, types.PublicKeySize); ok {
		return keys.PrefixBalance + utils.EncodeBase58(account) + ":" + string(symbol)
	}
	for _, p := range []string{keys.PrefixNonce, keys.PrefixEmissionAddress, keys.PrefixContractAccount} {
		if strings.HasPrefix(string(key), p) && len(key) >= len(p)+types.PublicKeySize {
			rest := key[len(p):]
			return p + utils.EncodeBase58(rest[:types.PublicKeySize]) + string(rest[types.PublicKeySize:])
		}
	}
	return renderValue(key)
}

func renderValue(v []byte) string {
	for _, c := range v {
		if c < 0x20 || c > 0x7e {
			return "b58:" + utils.EncodeBase58(v)
		}
	}
	return string(v)
}
