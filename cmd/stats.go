package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yichenw/quizdeck/internal/history"
	"github.com/yichenw/quizdeck/internal/ledger"
	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print session history and ledger statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := resolveDataDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		paths := storage.PathsIn(dataDir)

		l := ledger.Load(paths.Ledger)
		log := history.Load(paths.History)

		fmt.Printf("Mistakes to master: %d\n", len(l))
		fmt.Printf("Sessions recorded:  %d\n\n", log.Len())

		recs := log.Records()
		if len(recs) == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}

		for i := len(recs) - 1; i >= 0; i-- {
			rec := recs[i]
			fmt.Printf("%s  %-14s  %2d/%2d  %.1f%%\n",
				rec.Timestamp.Format("2006-01-02 15:04"),
				quiz.Mode(rec.Mode).DisplayName(),
				rec.Score,
				rec.QuestionCount,
				rec.Accuracy)
		}
		return nil
	},
}
