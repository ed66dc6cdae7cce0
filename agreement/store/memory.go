// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/agreement-engine/agreement"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	agreements map[string]agreement.Agreement
	offices    map[string]agreement.Office
	notices    map[string]agreement.TerminationNotice
}

func NewMemory() *Memory {
	return &Memory{
		agreements: make(map[string]agreement.Agreement),
		offices:    make(map[string]agreement.Office),
		notices:    make(map[string]agreement.TerminationNotice),
	}
}

// SaveAgreement inserts or replaces an agreement.
func (m *Memory) SaveAgreement(_ context.Context, a agreement.Agreement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agreements[a.ID] = a
	return nil
}

// GetAgreement returns the agreement, or nil when absent.
func (m *Memory) GetAgreement(_ context.Context, id string) (*agreement.Agreement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agreements[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// ListAgreements returns all agreements, newest first.
func (m *Memory) ListAgreements(_ context.Context) ([]agreement.Agreement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]agreement.Agreement, 0, len(m.agreements))
	for _, a := range m.agreements {
		out = append(out, a)
	}
	sortAgreements(out)
	return out, nil
}

// ListAgreementsByCompany returns one client's agreements, newest first.
func (m *Memory) ListAgreementsByCompany(_ context.Context, companyID string) ([]agreement.Agreement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []agreement.Agreement
	for _, a := range m.agreements {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	sortAgreements(out)
	return out, nil
}

func sortAgreements(as []agreement.Agreement) {
	sort.Slice(as, func(i, j int) bool {
		if as[i].CreatedAt.Equal(as[j].CreatedAt) {
			return as[i].ID < as[j].ID
		}
		return as[i].CreatedAt.After(as[j].CreatedAt)
	})
}

// SaveOffice inserts or replaces an office.
func (m *Memory) SaveOffice(_ context.Context, o agreement.Office) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offices[o.ID] = o
	return nil
}

// GetOffice returns the office, or nil when absent.
func (m *Memory) GetOffice(_ context.Context, id string) (*agreement.Office, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.offices[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// ListOffices returns all offices sorted by name.
func (m *Memory) ListOffices(_ context.Context) ([]agreement.Office, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]agreement.Office, 0, len(m.offices))
	for _, o := range m.offices {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SaveNotice inserts or replaces a termination notice.
func (m *Memory) SaveNotice(_ context.Context, n agreement.TerminationNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices[n.ID] = n
	return nil
}

// GetNotice returns the notice, or nil when absent.
func (m *Memory) GetNotice(_ context.Context, id string) (*agreement.TerminationNotice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notices[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// ListNoticesByCompany returns one client's notices, newest first.
func (m *Memory) ListNoticesByCompany(_ context.Context, companyID string) ([]agreement.TerminationNotice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []agreement.TerminationNotice
	for _, n := range m.notices {
		if n.CompanyID == companyID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error { return nil }
