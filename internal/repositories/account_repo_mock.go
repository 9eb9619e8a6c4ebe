package repositories

import (
	"fmt"
	"sync"
	"time"

	"plume/internal/models"

	"github.com/google/uuid"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	accounts map[string]models.Account
	mu       sync.RWMutex
}

// NewMockAccountRepository creates a new instance of MockAccountRepository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

// Create adds a new account.
func (r *MockAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	r.accounts[account.ID] = *account
	return nil
}

// GetByEmail returns an account by its normalized email.
func (r *MockAccountRepository) GetByEmail(email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			found := account
			return &found, nil
		}
	}
	return nil, fmt.Errorf("account with email %s: %w", email, ErrNotFound)
}

// GetByID returns an account by its ID.
func (r *MockAccountRepository) GetByID(id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account with ID %s: %w", id, ErrNotFound)
	}
	return &account, nil
}

// Delete removes an account by its ID. No-op when absent.
func (r *MockAccountRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}
