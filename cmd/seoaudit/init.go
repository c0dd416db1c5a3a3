package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoaudit/internal/config"
)

//go:embed templates/seoaudit.yaml
var siteFileTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter site file",
		Long: `Init writes a commented site file that the audit command picks up
automatically when it sits in the working directory.

The file sets the page budget, the worker count and the URL patterns to
skip, and shows how to give a single site its own cookies, headers and
audit thresholds.

Examples:
  # Write .seoaudit here
  seoaudit init

  # Write somewhere else
  seoaudit init -o sites/shop.yaml

  # Replace an existing file
  seoaudit init -f`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			if err := writeSiteFile(path, force); err != nil {
				return err
			}
			printInitHints(cmd, path)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Path of the site file to write")
	cmd.Flags().BoolP("force", "f", false, "Overwrite the file if it exists")

	return cmd
}

// writeSiteFile writes the embedded template to path, creating parent
// directories as needed.
func writeSiteFile(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, siteFileTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

func printInitHints(cmd *cobra.Command, path string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n\n", path)
	fmt.Fprintln(out, "Per-site entries can set:")
	fmt.Fprintln(out, "  - cookies and headers for member-only pages")
	fmt.Fprintln(out, "  - the page budget and worker count")
	fmt.Fprintln(out, "  - ignore and follow patterns")
	fmt.Fprintln(out, "  - title, description and word count thresholds")
}
