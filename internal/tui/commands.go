package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/listview"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// loadDeals reads the full collection from storage. The engines filter and
// page in memory, so the storage query is unscoped.
func loadDeals(ctx context.Context, storage service.Storage) tea.Cmd {
	return func() tea.Msg {
		deals, err := storage.GetDeals(ctx, service.DealFilter{})
		return dealsLoadedMsg{deals: deals, err: err}
	}
}

// loadOwners fetches the owner directory for the owner filter options.
// The directory degrades failures to an empty list itself.
func loadOwners(ctx context.Context, directory service.Directory) tea.Cmd {
	if directory == nil {
		return nil
	}
	return func() tea.Msg {
		owners, _ := directory.Owners(ctx)
		return ownersLoadedMsg{owners: owners}
	}
}

// submitEdit dispatches one inline cell edit.
func submitEdit(ctx context.Context, dispatcher *listview.InlineEditDispatcher, dealID string, field model.FieldID, value model.Value) tea.Cmd {
	return func() tea.Msg {
		return editResultMsg{outcome: dispatcher.Submit(ctx, dealID, field, value)}
	}
}

// deleteSelected removes the given deals from storage.
func deleteSelected(ctx context.Context, storage service.Storage, ids []string) tea.Cmd {
	return func() tea.Msg {
		err := storage.DeleteDeals(ctx, ids)
		return deleteDoneMsg{count: len(ids), err: err}
	}
}

// sendNotification delivers the task event raised by a completed edit.
// Failures are logged and swallowed; notification must never block or
// fail the mutation that triggered it.
func sendNotification(ctx context.Context, notifier service.Notifier, event service.TaskEvent) tea.Cmd {
	if notifier == nil {
		return nil
	}
	return func() tea.Msg {
		if err := notifier.Send(ctx, event); err != nil {
			common.LogWarn("Notification send failed", common.Fields{
				"kind":      event.Kind,
				"deal":      event.DealID,
				"recipient": event.Recipient,
				"error":     err,
			})
		}
		return nil
	}
}

// expireNotice clears the transient notice line after a few seconds.
func expireNotice() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

// editNotice maps an edit outcome to the one-line notice to display.
func editNotice(outcome listview.EditOutcome) string {
	if outcome.Updated() {
		return ""
	}
	if errors.Is(outcome.Err, common.ErrEditInFlight) {
		return "edit already in progress for this cell"
	}
	return outcome.Notice()
}
