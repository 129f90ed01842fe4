package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import deck files into the corpus",
	Long: `Read YAML or JSON deck files under path and append their decks to the
stored corpus. Cards may be given by id or name and are resolved against the
synced catalog.

Examples:
  royale import ./decks
  royale import ./decks --ephemeral`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	files, err := a.imports.Files(absPath)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", absPath, err)
	}
	fmt.Printf("Found %d deck files in %s\n", len(files), absPath)

	bar := newProgress("Importing")
	done := 0
	result, err := a.imports.Import(cmd.Context(), absPath, func(string) {
		done++
		bar.update(done, len(files))
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("\nImport complete:\n")
	fmt.Printf("  Files read:     %d\n", result.FilesRead)
	fmt.Printf("  Files failed:   %d\n", result.FilesFailed)
	fmt.Printf("  Decks imported: %d\n", result.DecksImported)
	printErrors(result.Errors)
	return nil
}
