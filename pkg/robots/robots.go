// Package robots generates the static robots.txt advising crawlers to
// stay out of the data, memory and log directories. It is a one-shot
// utility with no runtime interaction with the rest of the system.
package robots

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imgvault/pkg/config"
)

// Generate renders the robots.txt content for the configured path tree.
func Generate(paths config.PathsConfig) string {
	var b strings.Builder

	b.WriteString("# Robots.txt for imgvault (Research & Demo)\n")
	b.WriteString("# Generated automatically\n\n")
	b.WriteString("User-agent: *\n")

	for _, dir := range []string{paths.ImagesDir(), paths.MemoryDir(), paths.LogsDir()} {
		fmt.Fprintf(&b, "Disallow: /%s/\n", filepath.ToSlash(dir))
	}

	b.WriteString("\nAllow: /\n\n")
	b.WriteString("# ImgvaultBot identification\n")
	b.WriteString("User-agent: ImgvaultBot\n")
	b.WriteString("Crawl-delay: 10\n\n")
	b.WriteString("# Transparency:\n")
	b.WriteString("# This project performs image ingestion ONLY for research,\n")
	b.WriteString("# respects size limits, validation, and site policies.\n")

	return b.String()
}

// Write generates and writes robots.txt to the given path.
func Write(paths config.PathsConfig, outPath string) error {
	if err := os.WriteFile(outPath, []byte(Generate(paths)), 0644); err != nil {
		return fmt.Errorf("failed to write robots.txt: %w", err)
	}
	return nil
}
