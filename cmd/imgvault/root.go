package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"imgvault/pkg/config"
	"imgvault/pkg/logger"
)

var (
	// Version information, set at build time.
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	baseDir    string
	logLevel   string
	userAgent  string
)

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "imgvault",
	Short: "Download images referenced by a web page into a content-addressed store",
	Long: `imgvault downloads the images referenced by a web page, validates them
by remote metadata, verifies they decode, and stores them locally under
content-addressed names. A scan pass counts the stored images that still
decode cleanly, and every command is recorded in an append-only JSON
event log.

Commands:
  ingest   Fetch a page and ingest its images
  scan     Decode and count the stored images
  shell    Interactive terminal surface for both operations
  robots   Generate the robots.txt for the data directories`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .imgvault.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "base directory for the data tree")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "User-Agent sent with outbound requests")

	rootCmd.SetVersionTemplate(`imgvault {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig builds the configuration from all sources and initializes
// the global logger.
func loadConfig(extraFlags map[string]interface{}) (*config.Config, error) {
	flags := map[string]interface{}{
		"base-dir":   baseDir,
		"log-level":  logLevel,
		"user-agent": userAgent,
	}
	for k, v := range extraFlags {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}

	return cfg, nil
}
