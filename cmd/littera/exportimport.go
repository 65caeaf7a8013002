package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ikari-pl/littera/internal/command"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "export a Work as canonical JSON or Markdown",
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "import a Work from a canonical JSON bundle",
}

var exportOutFile string

var exportJSONCmd = &cobra.Command{
	Use:   "json [work-id]",
	Short: "export a Work's Bundle as canonical JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			b, err := command.ExportJSON(ctx, db, args[0])
			if err != nil {
				return err
			}
			return writeBundle(b)
		})
	},
}

var exportMarkdownCmd = &cobra.Command{
	Use:   "markdown [work-id]",
	Short: "export a Work as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			md, err := command.ExportMarkdown(ctx, db, args[0])
			if err != nil {
				return err
			}
			if exportOutFile == "" {
				printf("%s", md)
				return nil
			}
			return os.WriteFile(exportOutFile, []byte(md), 0o644)
		})
	},
}

var importInFile string

var importJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "import a Work from a canonical JSON bundle (see --file)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
			data, err := readBundleSource()
			if err != nil {
				return err
			}
			var b command.Bundle
			if err := json.Unmarshal(data, &b); err != nil {
				return err
			}
			return command.ImportJSON(ctx, db, &b, opts())
		})
	},
}

func writeBundle(b *command.Bundle) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	if exportOutFile == "" {
		printf("%s\n", data)
		return nil
	}
	return os.WriteFile(exportOutFile, data, 0o644)
}

func readBundleSource() ([]byte, error) {
	if importInFile == "" || importInFile == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(importInFile)
}

func init() {
	exportJSONCmd.Flags().StringVar(&exportOutFile, "out", "", "write to this file instead of stdout")
	exportMarkdownCmd.Flags().StringVar(&exportOutFile, "out", "", "write to this file instead of stdout")
	importJSONCmd.Flags().StringVar(&importInFile, "file", "", "bundle JSON file to read (default: stdin)")

	exportCmd.AddCommand(exportJSONCmd, exportMarkdownCmd)
	importCmd.AddCommand(importJSONCmd)
}
