package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mferrell/dealflow/internal/cli"
	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/config"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
	"github.com/mferrell/dealflow/internal/storage"
)

const dateLayout = "2006-01-02"

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import deals from a CSV file",
		Long: `Import deals from a CSV export into the local database.

The file must carry a header row; recognized columns are id, name, project,
lead, customer, region, owner, value, currency, probability, created_at,
close_date, stage, priority, handoff, and status. Rows with an existing id
replace the stored deal; rows without one get a generated id.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and report without saving")
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("cannot open %s", args[0]), err)
	}
	defer f.Close()

	slog.Info(cli.FormatTitle("Importing deals"))

	deals, err := parseDealsCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	slog.Info(cli.FormatSuccess(fmt.Sprintf("Parsed %d deals", len(deals))))

	if viper.GetBool("import.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		displayImportSummary(deals, 0)
		return nil
	}

	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	bar := progressbar.NewOptions(len(deals),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Saving deals..."),
	)

	// Saved in batches so the bar tracks progress, retrying each batch
	// since a concurrent browse session can hold the database briefly.
	const batchSize = 200
	saved := 0
	for start := 0; start < len(deals); start += batchSize {
		end := start + batchSize
		if end > len(deals) {
			end = len(deals)
		}
		batch := deals[start:end]

		err = common.WithRetry(ctx, func() error {
			n, saveErr := store.ImportDeals(ctx, batch)
			if saveErr != nil {
				return &common.RetryableError{Err: saveErr, Retryable: true}
			}
			saved += n
			return nil
		}, service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2,
		})
		if err != nil {
			return fmt.Errorf("failed to save deals: %w", err)
		}
		_ = bar.Add(len(batch))
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	slog.Info(cli.FormatSuccess("Import complete"))
	displayImportSummary(deals, saved)
	return nil
}

// parseDealsCSV reads a header-labeled CSV stream into deals. Column order
// is free and unrecognized columns are ignored. Malformed rows are skipped
// and logged rather than failing the whole file.
func parseDealsCSV(r io.Reader) ([]model.Deal, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("header has no name column")
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	skip := func(line int, reason string, detail any) {
		common.LogWarn("Skipping malformed row", common.Fields{
			"line":   line,
			"reason": reason,
			"value":  detail,
		})
	}

	var deals []model.Deal
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skip(line, "unreadable record", err)
			continue
		}

		deal := model.Deal{
			ID:       field(record, "id"),
			Name:     field(record, "name"),
			Project:  field(record, "project"),
			Lead:     field(record, "lead"),
			Customer: field(record, "customer"),
			Region:   field(record, "region"),
			Owner:    field(record, "owner"),
			Currency: field(record, "currency"),
			Status:   field(record, "status"),
			Stage:    model.Stage(field(record, "stage")),
			Priority: model.Priority(field(record, "priority")),
			Handoff:  model.HandoffStatus(field(record, "handoff")),
		}

		if deal.Name == "" {
			skip(line, "deal has no name", nil)
			continue
		}

		ok := true
		if raw := field(record, "value"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				skip(line, "invalid value", raw)
				ok = false
			}
			deal.Value = v
		}
		if raw := field(record, "probability"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil || p < 0 || p > 100 {
				skip(line, "invalid probability", raw)
				ok = false
			}
			deal.Probability = p
		}
		if raw := field(record, "created_at"); raw != "" {
			t, err := time.Parse(dateLayout, raw)
			if err != nil {
				skip(line, "invalid created_at", raw)
				ok = false
			}
			deal.CreatedAt = t
		}
		if raw := field(record, "close_date"); raw != "" {
			t, err := time.Parse(dateLayout, raw)
			if err != nil {
				skip(line, "invalid close_date", raw)
				ok = false
			}
			deal.CloseDate = t
		}
		if !ok {
			continue
		}

		deals = append(deals, deal)
	}

	return deals, nil
}

func displayImportSummary(deals []model.Deal, saved int) {
	if len(deals) == 0 {
		return
	}

	stages := make(map[model.Stage]int)
	total := 0.0
	for _, d := range deals {
		stages[d.Stage]++
		total += d.Value
	}

	content := fmt.Sprintf("Deals: %d\nSaved: %d\nTotal value: %.2f\n\nBy stage:\n", len(deals), saved, total)
	for _, stage := range model.AllStages {
		if n := stages[stage]; n > 0 {
			content += fmt.Sprintf("  %s: %d\n", stage, n)
		}
	}

	slog.Info(cli.RenderBox("Import Summary", content))
}
