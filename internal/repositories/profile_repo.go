package repositories

import "plume/internal/models"

// ProfileRepository defines the interface for profile data access. Name
// lookups expect already-normalized input; uniqueness is enforced on the
// normalized form.
type ProfileRepository interface {
	Create(profile *models.Profile) error
	GetByID(id string) (*models.Profile, error)
	GetByOwner(ownerID string) ([]models.Profile, error)
	GetPersonByName(firstName, lastName string) (*models.Profile, error)
	GetCompanyByName(name string) (*models.Profile, error)
	Delete(id string) error
	DeleteByOwner(ownerID string) error
}
