package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgvault/pkg/core"
	"imgvault/pkg/logger"
)

// scanCmd decodes and counts the stored images.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Decode and count the stored images",
	Long: `Walk the image store, decode and resize each file, and report how many
survive. Undecodable files are skipped silently. Nothing is written
besides the event record; the store is re-read from scratch each run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		c, err := core.New(cfg, logger.GetLogger())
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		result := c.Execute(cmd.Context(), core.CommandLearn, "")
		fmt.Println(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
