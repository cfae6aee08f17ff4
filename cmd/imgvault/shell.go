package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgvault/internal/dispatch"
	"imgvault/pkg/core"
	"imgvault/pkg/logger"
	"imgvault/pkg/shell"
)

// shellCmd starts the interactive terminal surface.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell with a URL input and both actions",
	Long: `Start the interactive terminal surface: a scrolling status log, a URL
input field and two action triggers. Commands run one at a time on a
background worker; triggering an action while one is in flight reports
a busy status instead of starting an overlapping run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		// Console logging would corrupt the alternate screen.
		cfg.Logging.Level = "disabled"
		if err := logger.Initialize(&cfg.Logging); err != nil {
			return err
		}

		c, err := core.New(cfg, logger.GetLogger())
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		queue := dispatch.NewQueue(c, logger.GetLogger())
		queue.Start()
		defer queue.Stop()

		return shell.New(queue).Run()
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
