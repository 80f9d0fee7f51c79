package tui

import (
	"github.com/mferrell/dealflow/internal/listview"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// Data loading messages.
type dealsLoadedMsg struct {
	err   error
	deals []model.Deal
}

type ownersLoadedMsg struct {
	owners []service.DirectoryEntry
}

// Action outcome messages.
type editResultMsg struct {
	outcome listview.EditOutcome
}

type deleteDoneMsg struct {
	err   error
	count int
}

// noticeExpiredMsg clears the transient notice line.
type noticeExpiredMsg struct{}
