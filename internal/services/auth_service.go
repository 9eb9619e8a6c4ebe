package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"plume/internal/apierr"
	"plume/internal/authz"
	"plume/internal/models"
	"plume/internal/repositories"
	"plume/internal/security"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt work factor, matching the fixed cost the password store was
// populated with.
const hashCost = 10

// conflictDelay blunts email-enumeration timing attacks: a duplicate
// registration answers noticeably slower than a fresh one.
const conflictDelay = 300 * time.Millisecond

// bcrypt reads at most 72 bytes of input. The policy allows passwords up to
// 100 characters, so longer ones are truncated identically on hash and
// compare to keep the full valid range round-tripping through login.
const maxBcryptInput = 72

func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxBcryptInput {
		b = b[:maxBcryptInput]
	}
	return b
}

// AuthService handles account registration, login, token issue/verification
// and account deletion with its cascade.
type AuthService struct {
	accounts  repositories.AccountRepository
	profiles  repositories.ProfileRepository
	articles  repositories.ArticleRepository
	comments  repositories.CommentRepository
	events    EventPublisher
	logger    *zap.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. The profile/article/comment
// repositories back the account deletion cascade.
func NewAuthService(
	accounts repositories.AccountRepository,
	profiles repositories.ProfileRepository,
	articles repositories.ArticleRepository,
	comments repositories.CommentRepository,
	events EventPublisher,
	logger *zap.Logger,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		accounts:  accounts,
		profiles:  profiles,
		articles:  articles,
		comments:  comments,
		events:    events,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates a regular account. The email is normalized before the
// uniqueness check; a duplicate answers with 409 after an artificial delay.
// The raw password is hashed with bcrypt and never stored or logged.
func (s *AuthService) Register(email, password string) (*models.Account, error) {
	if email == "" || password == "" {
		return nil, apierr.BadBody("please provide email and password")
	}
	email = security.NormalizeEmail(email)

	if !security.IsPasswordValid(password) {
		return nil, apierr.BadBody("password is not valid")
	}

	if _, err := s.accounts.GetByEmail(email); err == nil {
		time.Sleep(conflictDelay)
		return nil, apierr.Conflict("email is already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:    email,
		Password: string(hash),
		Kind:     models.AccountKindRegular,
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, fmt.Errorf("failed to register account: %w", err)
	}

	s.logger.Info("account registered", zap.String("accountID", account.ID))
	return account, nil
}

// Login authenticates a regular account and returns a signed token. Unknown
// email and wrong password yield the same failure.
func (s *AuthService) Login(email, password string) (string, *models.Account, error) {
	if email == "" || password == "" {
		return "", nil, apierr.BadBody("please provide email and password")
	}
	email = security.NormalizeEmail(email)

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return "", nil, apierr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), bcryptInput(password)); err != nil {
		return "", nil, apierr.Unauthorized("invalid credentials")
	}

	token, err := s.GenerateToken(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// FederatedLogin finds or creates a passwordless account for an externally
// authenticated identity and issues a token. The OAuth exchange itself
// happens upstream; this only binds the asserted email to an account.
func (s *AuthService) FederatedLogin(email, provider string) (string, *models.Account, error) {
	if email == "" || provider == "" {
		return "", nil, apierr.BadBody("please provide email and provider")
	}
	email = security.NormalizeEmail(email)

	account, err := s.accounts.GetByEmail(email)
	if errors.Is(err, repositories.ErrNotFound) {
		account = &models.Account{
			Email: email,
			Kind:  provider,
		}
		if err := s.accounts.Create(account); err != nil {
			return "", nil, fmt.Errorf("failed to create federated account: %w", err)
		}
		s.logger.Info("federated account created",
			zap.String("accountID", account.ID),
			zap.String("provider", provider),
		)
	} else if err != nil {
		return "", nil, fmt.Errorf("failed to look up federated account: %w", err)
	}

	token, err := s.GenerateToken(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// GenerateToken signs a stateless bearer token for the account, valid for
// 24 hours.
func (s *AuthService) GenerateToken(account *models.Account) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": account.ID,
		"iat":        now.Unix(),
		"exp":        now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// Authenticate resolves a bearer token to a live account. Every failure mode
// (bad signature, expired claims, unknown account) collapses into the same
// undifferentiated 401.
func (s *AuthService) Authenticate(tokenString string) (*models.Account, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized("unauthorized")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierr.Unauthorized("unauthorized")
	}
	accountID, ok := claims["account_id"].(string)
	if !ok || accountID == "" {
		return nil, apierr.Unauthorized("unauthorized")
	}

	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, apierr.Unauthorized("unauthorized")
	}
	return account, nil
}

// DeleteAccount deletes an account and cascades over its profiles and their
// content. Only the account itself may do this. The cascade is an ordered
// sequence of idempotent steps, not a transaction: children go first so a
// retry after a partial failure converges.
func (s *AuthService) DeleteAccount(id string, acting *models.Account) error {
	if acting == nil || !authz.CanDeleteAccount(id, acting) {
		s.logger.Warn("account deletion denied", zap.String("targetID", id))
		return apierr.Forbidden("you can't delete this account")
	}

	if _, err := s.accounts.GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apierr.NotFound("account not found")
		}
		return fmt.Errorf("failed to load account %s: %w", id, err)
	}

	profiles, err := s.profiles.GetByOwner(id)
	if err != nil {
		return fmt.Errorf("failed to load profiles for account %s: %w", id, err)
	}
	for _, profile := range profiles {
		if err := cascadeProfileContent(s.articles, s.comments, profile.ID); err != nil {
			return err
		}
	}
	if err := s.profiles.DeleteByOwner(id); err != nil {
		return err
	}
	if err := s.accounts.Delete(id); err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.String("accountID", id))
	s.publishAccountDeleted(id)
	return nil
}

func (s *AuthService) publishAccountDeleted(accountID string) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{"accountID": accountID})
	if err != nil {
		s.logger.Warn("failed to marshal account event", zap.Error(err))
		return
	}
	if err := s.events.Publish(EventAccountDeleted, body); err != nil {
		s.logger.Warn("failed to publish account deleted event",
			zap.String("accountID", accountID), zap.Error(err))
	}
}

// cascadeProfileContent removes everything a profile authored: the comments
// on each of its articles, its articles, and its own comments elsewhere.
// Shared by profile deletion and the account cascade.
func cascadeProfileContent(
	articles repositories.ArticleRepository,
	comments repositories.CommentRepository,
	profileID string,
) error {
	authored, err := articles.GetByAuthor(profileID)
	if err != nil {
		return fmt.Errorf("failed to load articles for profile %s: %w", profileID, err)
	}
	for _, article := range authored {
		if err := comments.DeleteByArticle(article.ID); err != nil {
			return err
		}
	}
	if err := articles.DeleteByAuthor(profileID); err != nil {
		return err
	}
	if err := comments.DeleteByAuthor(profileID); err != nil {
		return err
	}
	return nil
}
