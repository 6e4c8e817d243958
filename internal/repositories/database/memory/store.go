// Package memory is an in-process storage driver for development and tests.
// It honours the same tenant scoping and change notifications as the
// Postgres driver.
package memory

import (
	"sync"

	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
)

// Store holds every table of the in-memory driver.
type Store struct {
	mu           sync.RWMutex
	churches     map[string]domain.Church
	roles        map[roleKey]domain.RoleSet
	transactions map[string]domain.Transaction
	categories   map[string]namedGroup
	ministries   map[string]namedGroup

	feed *changeFeed
}

type roleKey struct {
	userID   string
	churchID string
}

type namedGroup struct {
	churchID string
	name     string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		churches:     make(map[string]domain.Church),
		roles:        make(map[roleKey]domain.RoleSet),
		transactions: make(map[string]domain.Transaction),
		categories:   make(map[string]namedGroup),
		ministries:   make(map[string]namedGroup),
		feed:         newChangeFeed(),
	}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: &transactionRepository{store: store},
		RoleRepo:        &roleRepository{store: store},
		ChurchRepo:      &churchRepository{store: store},
		ReportingRepo:   &reportingRepository{store: store},
		ChangeFeed:      store.feed,
	}
}

// AddChurch creates or replaces a church.
func (s *Store) AddChurch(c domain.Church) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.churches[c.ChurchID] = c
}

// AddCategory names a category of a church, for reports.
func (s *Store) AddCategory(churchID, categoryID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[categoryID] = namedGroup{churchID: churchID, name: name}
}

// AddMinistry names a ministry of a church, for reports.
func (s *Store) AddMinistry(churchID, ministryID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ministries[ministryID] = namedGroup{churchID: churchID, name: name}
}
