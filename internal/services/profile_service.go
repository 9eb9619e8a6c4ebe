package services

import (
	"errors"
	"fmt"

	"plume/internal/apierr"
	"plume/internal/authz"
	"plume/internal/models"
	"plume/internal/repositories"
	"plume/internal/security"

	"go.uber.org/zap"
)

// ProfileService handles profile registration, lookups and deletion with its
// content cascade.
type ProfileService struct {
	profiles repositories.ProfileRepository
	articles repositories.ArticleRepository
	comments repositories.CommentRepository
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	profiles repositories.ProfileRepository,
	articles repositories.ArticleRepository,
	comments repositories.CommentRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		articles: articles,
		comments: comments,
		logger:   logger,
	}
}

// Register creates a profile of the requested kind for the acting account.
// Identity fields are normalized before the uniqueness check, so uniqueness
// holds on the normalized form and is global across all accounts.
func (s *ProfileService) Register(acting *models.Account, kind, firstName, lastName, name string) (*models.Profile, error) {
	switch kind {
	case models.ProfileKindPerson:
		return s.registerPerson(acting, firstName, lastName)
	case models.ProfileKindCompany:
		return s.registerCompany(acting, name)
	default:
		return nil, apierr.BadBody("missing or bad kind")
	}
}

func (s *ProfileService) registerPerson(acting *models.Account, firstName, lastName string) (*models.Profile, error) {
	if firstName == "" || lastName == "" {
		return nil, apierr.BadBody("missing firstName or lastName")
	}
	firstName = security.NormalizeFirstName(firstName)
	lastName = security.NormalizeLastName(lastName)

	if _, err := s.profiles.GetPersonByName(firstName, lastName); err == nil {
		return nil, apierr.Conflict("person with this name already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check person uniqueness: %w", err)
	}

	profile := &models.Profile{
		Owner:     acting.ID,
		Kind:      models.ProfileKindPerson,
		FirstName: firstName,
		LastName:  lastName,
		Bio:       models.DefaultBio,
		Avatar:    models.DefaultAvatar,
	}
	if err := s.profiles.Create(profile); err != nil {
		return nil, fmt.Errorf("failed to register person: %w", err)
	}

	s.logger.Info("person registered", zap.String("profileID", profile.ID))
	return profile, nil
}

func (s *ProfileService) registerCompany(acting *models.Account, name string) (*models.Profile, error) {
	if name == "" {
		return nil, apierr.BadBody("missing name")
	}
	name = security.NormalizeCompanyName(name)

	if _, err := s.profiles.GetCompanyByName(name); err == nil {
		return nil, apierr.Conflict("company with this name already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check company uniqueness: %w", err)
	}

	profile := &models.Profile{
		Owner: acting.ID,
		Kind:  models.ProfileKindCompany,
		Name:  name,
	}
	if err := s.profiles.Create(profile); err != nil {
		return nil, fmt.Errorf("failed to register company: %w", err)
	}

	s.logger.Info("company registered", zap.String("profileID", profile.ID))
	return profile, nil
}

// Get retrieves a profile by its ID.
func (s *ProfileService) Get(id string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apierr.NotFound("profile not found")
		}
		return nil, err
	}
	return profile, nil
}

// ListByAccount retrieves all profiles owned by an account, newest first.
func (s *ProfileService) ListByAccount(accountID string) ([]models.Profile, error) {
	return s.profiles.GetByOwner(accountID)
}

// Articles retrieves all articles authored by a profile, newest first.
func (s *ProfileService) Articles(profileID string) ([]models.Article, error) {
	return s.articles.GetByAuthor(profileID)
}

// Comments retrieves all comments authored by a profile, newest first.
func (s *ProfileService) Comments(profileID string) ([]models.Comment, error) {
	return s.comments.GetByAuthor(profileID)
}

// Delete deletes a profile and cascades over its articles and comments.
// Only the owning account may delete it. Children-first, idempotent steps;
// no cross-table transaction.
func (s *ProfileService) Delete(id string, acting *models.Account) error {
	profile, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apierr.NotFound("profile not found")
		}
		return err
	}

	if !authz.CanDeleteProfile(profile, acting) {
		s.logger.Warn("profile deletion denied", zap.String("profileID", id))
		return apierr.Forbidden("you are not the owner of this profile")
	}

	if err := cascadeProfileContent(s.articles, s.comments, id); err != nil {
		return err
	}
	if err := s.profiles.Delete(id); err != nil {
		return err
	}

	s.logger.Info("profile deleted", zap.String("profileID", id))
	return nil
}
