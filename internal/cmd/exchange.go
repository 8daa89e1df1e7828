package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/filelock"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// habitRecord is the export/import representation of a habit.
// Timestamps use the same layout as the store.
type habitRecord struct {
	Name        string   `json:"name" yaml:"name"`
	Periodicity string   `json:"periodicity" yaml:"periodicity"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
	Completions []string `json:"completions" yaml:"completions"`
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all habits to JSON or YAML",
		Long: `Export every habit with its full completion history for backup or
external analysis. If no output file is specified, data is written to stdout.

Examples:
  # Export to JSON file
  habits export --format json --output habits.json

  # Export to stdout as YAML
  habits export --format yaml

Supported formats:
  - json: JSON array of habit records
  - yaml: YAML sequence of habit records`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "Export format (json|yaml)")
	cmd.Flags().StringVar(&output, "output", "", "Output file path (stdout if not specified)")

	return cmd
}

func runExport(cmd *cobra.Command, opts *globalOptions, format, output string) error {
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("invalid format '%s': format must be 'json' or 'yaml'", format)
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	records := make([]habitRecord, 0, s.tracker.Len())
	for _, h := range s.tracker.Habits() {
		records = append(records, toRecord(h))
	}

	data, err := encodeRecords(format, records)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := filelock.AtomicWrite(output, data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	s.log.LogInfo(fmt.Sprintf("Exported %d habits to %s", len(records), output))
	return nil
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import habits from a JSON or YAML export",
		Long: `Import habits previously written by "habits export".

The import is all-or-nothing: if any habit in the file already exists in the
store (or appears twice in the file), nothing is imported.

The format is taken from the file extension (.yaml/.yml for YAML, anything
else for JSON) unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format (json|yaml, default from extension)")

	return cmd
}

func runImport(cmd *cobra.Command, opts *globalOptions, path, format string) error {
	if format == "" {
		format = formatFromExtension(path)
	}
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("invalid format '%s': format must be 'json' or 'yaml'", format)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	records, err := decodeRecords(format, data)
	if err != nil {
		return err
	}

	habits := make([]*models.Habit, 0, len(records))
	for i, r := range records {
		h, err := fromRecord(r)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		habits = append(habits, h)
	}

	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.store.Insert(commandContext(cmd), habits...); err != nil {
		return fmt.Errorf("import habits: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d habits.\n", len(habits))
	return nil
}

func toRecord(h *models.Habit) habitRecord {
	completions := make([]string, 0, len(h.Completions))
	for _, c := range h.Completions {
		completions = append(completions, storage.FormatTime(c))
	}
	return habitRecord{
		Name:        h.Name,
		Periodicity: string(h.Periodicity),
		CreatedAt:   storage.FormatTime(h.CreatedAt),
		Completions: completions,
	}
}

func fromRecord(r habitRecord) (*models.Habit, error) {
	p, err := models.ParsePeriodicity(r.Periodicity)
	if err != nil {
		return nil, err
	}

	h := models.NewHabit(r.Name, p)
	if err := h.Validate(); err != nil {
		return nil, err
	}

	if r.CreatedAt != "" {
		createdAt, err := storage.ParseTime(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("habit %q: invalid created_at: %w", r.Name, err)
		}
		h.CreatedAt = createdAt
	}

	for _, c := range r.Completions {
		t, err := storage.ParseTime(c)
		if err != nil {
			return nil, fmt.Errorf("habit %q: invalid completion: %w", r.Name, err)
		}
		h.Completions = append(h.Completions, t)
	}
	return h, nil
}

func encodeRecords(format string, records []habitRecord) ([]byte, error) {
	switch format {
	case formatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func decodeRecords(format string, data []byte) ([]habitRecord, error) {
	var records []habitRecord
	switch format {
	case formatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	}
	return records, nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}
