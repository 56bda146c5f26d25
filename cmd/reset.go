package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yichenw/quizdeck/internal/storage"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored ledger and/or history documents",
	Long: "Deletes the persisted documents named by its flags. Without flags nothing\n" +
		"is removed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		paths := storage.PathsIn(dataDir)

		resetLedger, _ := cmd.Flags().GetBool("ledger")
		resetHistory, _ := cmd.Flags().GetBool("history")
		if all, _ := cmd.Flags().GetBool("all"); all {
			resetLedger = true
			resetHistory = true
		}

		if !resetLedger && !resetHistory {
			fmt.Println("Nothing to do. Pass --ledger, --history or --all.")
			return nil
		}

		if resetLedger {
			if err := remove(paths.Ledger); err != nil {
				return err
			}
			fmt.Println("Mistake ledger cleared.")
		}
		if resetHistory {
			if err := remove(paths.History); err != nil {
				return err
			}
			fmt.Println("Session history cleared.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("ledger", false, "Delete the mistake ledger")
	resetCmd.Flags().Bool("history", false, "Delete the session history")
	resetCmd.Flags().Bool("all", false, "Delete both documents")
}

// remove deletes path, treating a missing file as already done.
func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
