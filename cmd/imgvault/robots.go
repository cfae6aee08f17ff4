package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imgvault/pkg/robots"
)

var robotsOut string

// robotsCmd generates the static robots.txt.
var robotsCmd = &cobra.Command{
	Use:   "robots",
	Short: "Generate robots.txt for the data directories",
	Long: `Write a robots.txt advising crawlers to stay out of the image store,
memory and log directories. One-shot: the file has no runtime
interaction with the rest of the system.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		if err := robots.Write(cfg.Paths, robotsOut); err != nil {
			return err
		}

		fmt.Printf("robots.txt generated at %s\n", robotsOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(robotsCmd)

	robotsCmd.Flags().StringVarP(&robotsOut, "out", "o", "robots.txt", "output path")
}
