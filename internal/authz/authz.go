// Package authz holds the pure ownership decisions. Both functions are total
// over their inputs and do no I/O; callers load the records first and turn a
// false result into a 403.
package authz

import "plume/internal/models"

// Content is any record authored by a profile (articles, comments).
type Content interface {
	AuthorProfileID() string
}

// CanMutateContent reports whether the acting profile may update or delete
// the content. Only the authoring profile may; there is no privileged-role
// override.
func CanMutateContent(content Content, acting *models.Profile) bool {
	if content == nil || acting == nil {
		return false
	}
	return content.AuthorProfileID() == acting.ID
}

// CanDeleteAccount reports whether the acting account may delete the target
// account. Accounts may only delete themselves.
func CanDeleteAccount(targetID string, acting *models.Account) bool {
	if acting == nil || targetID == "" {
		return false
	}
	return targetID == acting.ID
}

// CanDeleteProfile reports whether the acting account may delete the target
// profile. Only the owning account may.
func CanDeleteProfile(target *models.Profile, acting *models.Account) bool {
	if target == nil || acting == nil {
		return false
	}
	return target.Owner == acting.ID
}
