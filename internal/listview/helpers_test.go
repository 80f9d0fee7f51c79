package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// memPrefs is an in-memory PrefStore for tests.
type memPrefs struct {
	data map[string][]byte
	mu   sync.Mutex
}

var errPrefMissing = errors.New("pref key not found")

func newMemPrefs() *memPrefs {
	return &memPrefs{data: make(map[string][]byte)}
}

func (m *memPrefs) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, errPrefMissing
	}
	return raw, nil
}

func (m *memPrefs) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memPrefs) Close() error { return nil }

// stubStorage implements service.Storage with scripted update behavior.
type stubStorage struct {
	updateErr error
	updates   []string
	deals     []model.Deal
	mu        sync.Mutex

	// updateStarted/updateRelease let a test hold an update in flight.
	updateStarted chan struct{}
	updateRelease chan struct{}
}

func (s *stubStorage) GetDeals(_ context.Context, _ service.DealFilter) ([]model.Deal, error) {
	return s.deals, nil
}

func (s *stubStorage) GetDealByID(_ context.Context, id string) (*model.Deal, error) {
	for i := range s.deals {
		if s.deals[i].ID == id {
			return &s.deals[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubStorage) UpdateDealField(_ context.Context, id string, field model.FieldID, _ model.Value) error {
	if s.updateStarted != nil {
		s.updateStarted <- struct{}{}
		<-s.updateRelease
	}
	s.mu.Lock()
	s.updates = append(s.updates, id+"/"+string(field))
	s.mu.Unlock()
	return s.updateErr
}

func (s *stubStorage) DeleteDeals(_ context.Context, _ []string) error { return nil }

func (s *stubStorage) ImportDeals(_ context.Context, deals []model.Deal) (int, error) {
	return len(deals), nil
}

func (s *stubStorage) Migrate(_ context.Context) error { return nil }
func (s *stubStorage) Close() error                    { return nil }

// date is shorthand for a UTC date in test fixtures.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixtureDeals is a small pipeline slice exercising every filter dimension.
func fixtureDeals() []model.Deal {
	return []model.Deal{
		{
			ID: "d1", Name: "Acme renewal", Project: "Renewals", Lead: "Dana Cho",
			Customer: "Acme Corp", Region: "EMEA", Owner: "u1",
			Value: 50000, Currency: "EUR", Probability: 80,
			CreatedAt: date(2025, 1, 10), CloseDate: date(2025, 6, 30),
			Stage: model.StageNegotiation, Priority: model.PriorityHigh,
			Handoff: model.HandoffPending, Status: "legal review",
		},
		{
			ID: "d2", Name: "Globex pilot", Project: "New logos", Lead: "Sam Reyes",
			Customer: "Globex", Region: "AMER", Owner: "u2",
			Value: 12000, Currency: "USD", Probability: 35,
			CreatedAt: date(2025, 3, 2), CloseDate: date(2025, 9, 15),
			Stage: model.StageQualified, Priority: model.PriorityMedium,
			Handoff: model.HandoffNone, Status: "awaiting demo",
		},
		{
			ID: "d3", Name: "Initech expansion", Project: "Expansion", Lead: "Dana Cho",
			Customer: "Initech", Region: "AMER", Owner: "u1",
			Value: 98000, Currency: "USD", Probability: 60,
			CreatedAt: date(2024, 11, 20), CloseDate: date(2025, 4, 1),
			Stage: model.StageProposal, Priority: model.PriorityCritical,
			Handoff: model.HandoffInProgress, Status: "pricing sent",
		},
	}
}
