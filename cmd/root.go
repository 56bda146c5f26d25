package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yichenw/quizdeck/internal/app"
	"github.com/yichenw/quizdeck/internal/bank"
	"github.com/yichenw/quizdeck/internal/quiz"
	"github.com/yichenw/quizdeck/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "quizdeck",
	Short: "Terminal quiz trainer with a persistent mistake ledger",
	Long: "QuizDeck loads spreadsheet question banks and drills you on them in the terminal.\n" +
		"Wrong answers land in a mistake ledger and stay there until you answer them\n" +
		"correctly twice in review.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary can set QUIZDECK_* variables.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("data", "", "Data directory for ledger and history (overrides QUIZDECK_DATA)")
	rootCmd.PersistentFlags().String("bank", "", "Directory holding .xlsx/.csv question banks (overrides QUIZDECK_BANK)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// runApp loads the bank and documents and launches the TUI.
func runApp(cmd *cobra.Command) error {
	dataDir, err := resolveDataDir(cmd)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	logger, closeLog := newLogger(dataDir)
	defer closeLog()

	loader := bank.NewLoader(resolveBankDir(cmd), logger)
	questions := loader.Load()
	logger.Info("question bank loaded", "questions", len(questions))

	engine := quiz.NewEngine(questions, storage.PathsIn(dataDir))
	return app.Run(app.Options{Engine: engine})
}

// resolveDataDir returns the data directory using the --data flag,
// then QUIZDECK_DATA, then the default XDG path.
func resolveDataDir(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("data"); p != "" {
		return p, nil
	}
	return storage.DefaultDataDir()
}

// resolveBankDir returns the question-bank directory using the --bank
// flag, then QUIZDECK_BANK, then the current directory.
func resolveBankDir(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		return p
	}
	if p := os.Getenv("QUIZDECK_BANK"); p != "" {
		return p
	}
	return "."
}

// newLogger writes structured logs to quizdeck.log in the data dir so
// they never bleed into the TUI. Logging is best effort: if the file
// cannot be opened the logs are dropped.
func newLogger(dataDir string) (*slog.Logger, func()) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "quizdeck.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { _ = f.Close() }
}
