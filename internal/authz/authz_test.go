package authz_test

import (
	"testing"

	"plume/internal/authz"
	"plume/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanMutateContent(t *testing.T) {
	author := &models.Profile{ID: "profile-1", Owner: "account-1"}
	other := &models.Profile{ID: "profile-2", Owner: "account-1"}

	article := models.Article{ID: "article-1", Author: "profile-1"}
	comment := models.Comment{ID: "comment-1", Author: "profile-1"}

	assert.True(t, authz.CanMutateContent(article, author))
	assert.True(t, authz.CanMutateContent(comment, author))

	// Ownership is by profile, not account: a sibling profile under the
	// same account is still denied.
	assert.False(t, authz.CanMutateContent(article, other))
	assert.False(t, authz.CanMutateContent(comment, other))

	assert.False(t, authz.CanMutateContent(nil, author))
	assert.False(t, authz.CanMutateContent(article, nil))
	assert.False(t, authz.CanMutateContent(nil, nil))
}

func TestCanDeleteProfile(t *testing.T) {
	owner := &models.Account{ID: "account-1"}
	stranger := &models.Account{ID: "account-2"}
	profile := &models.Profile{ID: "profile-1", Owner: "account-1"}

	assert.True(t, authz.CanDeleteProfile(profile, owner))
	assert.False(t, authz.CanDeleteProfile(profile, stranger))
	assert.False(t, authz.CanDeleteProfile(nil, owner))
	assert.False(t, authz.CanDeleteProfile(profile, nil))
}

func TestCanDeleteAccount(t *testing.T) {
	account := &models.Account{ID: "account-1"}

	assert.True(t, authz.CanDeleteAccount("account-1", account))
	assert.False(t, authz.CanDeleteAccount("account-2", account))
	assert.False(t, authz.CanDeleteAccount("", account))
	assert.False(t, authz.CanDeleteAccount("account-1", nil))
}
