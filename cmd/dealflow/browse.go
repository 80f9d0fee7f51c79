package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/config"
	"github.com/mferrell/dealflow/internal/directory"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/notify"
	"github.com/mferrell/dealflow/internal/prefs"
	"github.com/mferrell/dealflow/internal/service"
	"github.com/mferrell/dealflow/internal/storage"
	"github.com/mferrell/dealflow/internal/tui"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive deal list",
		Long: `Open the deal list in an interactive terminal view.

Filters, sort, column layout, and column widths persist between sessions.`,
		RunE: runBrowse,
	}

	cmd.Flags().String("stage", "", "open scoped to one pipeline stage (Lead, Qualified, Proposal, Negotiation, Won, Lost)")
	_ = viper.BindPFlag("browse.stage", cmd.Flags().Lookup("stage"))

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	stage, err := parseStageFlag(viper.GetString("browse.stage"))
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Preferences are best-effort: without them the list still works, it
	// just forgets its layout between sessions.
	var prefStore service.PrefStore
	if p, err := prefs.Open(config.PrefsPath()); err != nil {
		common.LogWarn("Preference store unavailable, layout will not persist", common.Fields{"error": err})
	} else {
		prefStore = p
		defer p.Close()
	}

	var dir service.Directory
	if url := config.DirectoryURL(); url != "" {
		dir = directory.NewClient(url)
	}

	notifier := buildNotifier()

	return tui.Run(ctx, tui.Config{
		Storage:      store,
		Directory:    dir,
		Notifier:     notifier,
		Prefs:        prefStore,
		InitialStage: stage,
	})
}

// buildNotifier assembles the mail notifier when its configuration is
// complete. An unconfigured pipeline is normal for local use.
func buildNotifier() service.Notifier {
	cfg, err := config.LoadNotifyConfig()
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			common.LogDebug("Notification pipeline unconfigured, status changes will not be mailed", nil)
		} else {
			common.LogWarn("Invalid notification configuration", common.Fields{"error": err})
		}
		return nil
	}

	mailer, err := notify.NewMailer(*cfg)
	if err != nil {
		common.LogWarn("Failed to build mail notifier", common.Fields{"error": err})
		return nil
	}
	return mailer
}

func parseStageFlag(raw string) (model.Stage, error) {
	if raw == "" {
		return "", nil
	}
	for _, stage := range model.AllStages {
		if strings.EqualFold(raw, string(stage)) {
			return stage, nil
		}
	}
	return "", common.NewUserError(
		fmt.Sprintf("unknown stage %q (expected one of: Lead, Qualified, Proposal, Negotiation, Won, Lost)", raw),
		fmt.Errorf("invalid stage flag: %s", raw),
	)
}
