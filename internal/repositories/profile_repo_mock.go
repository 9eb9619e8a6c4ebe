package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"plume/internal/models"

	"github.com/google/uuid"
)

// MockProfileRepository is an in-memory implementation of ProfileRepository.
type MockProfileRepository struct {
	profiles map[string]models.Profile
	mu       sync.RWMutex
}

// NewMockProfileRepository creates a new instance of MockProfileRepository.
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[string]models.Profile),
	}
}

// Create adds a new profile.
func (r *MockProfileRepository) Create(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	r.profiles[profile.ID] = *profile
	return nil
}

// GetByID returns a profile by its ID.
func (r *MockProfileRepository) GetByID(id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile with ID %s: %w", id, ErrNotFound)
	}
	return &profile, nil
}

// GetByOwner returns all profiles owned by an account, newest first.
func (r *MockProfileRepository) GetByOwner(ownerID string) ([]models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]models.Profile, 0)
	for _, profile := range r.profiles {
		if profile.Owner == ownerID {
			profiles = append(profiles, profile)
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// GetPersonByName returns a Person profile by its normalized name pair.
func (r *MockProfileRepository) GetPersonByName(firstName, lastName string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.profiles {
		if profile.Kind == models.ProfileKindPerson &&
			profile.FirstName == firstName && profile.LastName == lastName {
			found := profile
			return &found, nil
		}
	}
	return nil, fmt.Errorf("person %s %s: %w", firstName, lastName, ErrNotFound)
}

// GetCompanyByName returns a Company profile by its normalized name.
func (r *MockProfileRepository) GetCompanyByName(name string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.profiles {
		if profile.Kind == models.ProfileKindCompany && profile.Name == name {
			found := profile
			return &found, nil
		}
	}
	return nil, fmt.Errorf("company %s: %w", name, ErrNotFound)
}

// Delete removes a profile by its ID. No-op when absent.
func (r *MockProfileRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.profiles, id)
	return nil
}

// DeleteByOwner removes every profile owned by an account.
func (r *MockProfileRepository) DeleteByOwner(ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, profile := range r.profiles {
		if profile.Owner == ownerID {
			delete(r.profiles, id)
		}
	}
	return nil
}
