package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tedred-internship-api/internal/domain"
	"tedred-internship-api/internal/export"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportPrefix string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <record.json|->",
	Short: "Render an application summary document",
	Long: `Reads an application record as JSON, either bare or wrapped in a wizard
session view, and writes the summary as XLSX or CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "xlsx or csv")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", export.DefaultPrefix, "File name prefix")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Output directory")
}

// decodeRecord accepts a bare record or any object with a "record" field
func decodeRecord(data []byte) (domain.ApplicationRecord, error) {
	var wrapped struct {
		Record *domain.ApplicationRecord `json:"record"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return domain.ApplicationRecord{}, err
	}
	if wrapped.Record != nil {
		return *wrapped.Record, nil
	}

	var record domain.ApplicationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.ApplicationRecord{}, err
	}
	return record, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	var data []byte
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}

	record, err := decodeRecord(data)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	body, err := export.Render(export.Generate(record), format)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	path := filepath.Join(exportDir, export.Filename(exportPrefix, record.FirstName, record.LastName, format))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(body))
	return nil
}
