package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"imgvault/pkg/core"
	"imgvault/pkg/logger"
)

var (
	ingestLimit     int
	ingestRateLimit int
)

// ingestCmd fetches a page and ingests its images.
var ingestCmd = &cobra.Command{
	Use:   "ingest <url>",
	Short: "Fetch a page and ingest the images it references",
	Long: `Fetch the page, extract its img elements in document order, validate
each candidate by a HEAD request (content type must contain "image",
declared length at most the configured ceiling), download and verify the
admissible ones, and persist them under content-addressed names.

Per-candidate failures are skipped; only a page fetch failure aborts
the run. The invocation is recorded in the event log either way.`,
	Example: `  # Ingest up to 40 images (the default limit)
  imgvault ingest https://example.com/gallery

  # Cap the run at 5 accepted images
  imgvault ingest https://example.com/gallery --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := strings.TrimSpace(args[0])

		cfg, err := loadConfig(map[string]interface{}{
			"limit":      ingestLimit,
			"rate-limit": ingestRateLimit,
		})
		if err != nil {
			return err
		}

		c, err := core.New(cfg, logger.GetLogger())
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		result := c.Execute(cmd.Context(), core.CommandClone, url)
		fmt.Println(result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestLimit, "limit", 0, "maximum accepted images per run (default 40)")
	ingestCmd.Flags().IntVar(&ingestRateLimit, "rate-limit", -1, "outbound requests per minute, 0 to disable")
}
