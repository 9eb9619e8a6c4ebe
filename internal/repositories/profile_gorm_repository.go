package repositories

import (
	"errors"
	"fmt"

	"plume/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProfileRepository is a GORM implementation of ProfileRepository.
// Person and Company profiles share one table, discriminated by the Kind
// column.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// Create creates a new profile in the database.
func (r *GORMProfileRepository) Create(profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *GORMProfileRepository) GetByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by ID %s: %w", id, err)
	}
	return &profile, nil
}

// GetByOwner retrieves all profiles owned by an account, newest first.
func (r *GORMProfileRepository) GetByOwner(ownerID string) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Where("owner = ?", ownerID).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to get profiles for owner %s: %w", ownerID, err)
	}
	return profiles, nil
}

// GetPersonByName retrieves a Person profile by its normalized name pair.
func (r *GORMProfileRepository) GetPersonByName(firstName, lastName string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("kind = ? AND first_name = ? AND last_name = ?",
		models.ProfileKindPerson, firstName, lastName).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("person %s %s: %w", firstName, lastName, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get person by name: %w", err)
	}
	return &profile, nil
}

// GetCompanyByName retrieves a Company profile by its normalized name.
func (r *GORMProfileRepository) GetCompanyByName(name string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("kind = ? AND name = ?", models.ProfileKindCompany, name).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company by name: %w", err)
	}
	return &profile, nil
}

// Delete deletes a profile by its ID. No-op when absent.
func (r *GORMProfileRepository) Delete(id string) error {
	if err := r.db.Delete(&models.Profile{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	return nil
}

// DeleteByOwner deletes every profile owned by an account. No-op when none
// exist.
func (r *GORMProfileRepository) DeleteByOwner(ownerID string) error {
	if err := r.db.Delete(&models.Profile{}, "owner = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to delete profiles for owner %s: %w", ownerID, err)
	}
	return nil
}
