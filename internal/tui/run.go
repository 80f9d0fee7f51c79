package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// Config wires the collaborators into the list view.
type Config struct {
	ctx context.Context

	Storage   service.Storage
	Directory service.Directory
	Notifier  service.Notifier
	Prefs     service.PrefStore

	// InitialStage pre-constrains the stage filter when non-empty.
	InitialStage model.Stage
}

// Run starts the interactive deal list and blocks until it exits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Storage == nil {
		return fmt.Errorf("tui: storage is required")
	}
	cfg.ctx = ctx

	p := tea.NewProgram(
		newModel(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
