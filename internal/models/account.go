package models

import "time"

// Account kinds. Federated accounts carry the provider name and have no
// password hash.
const (
	AccountKindRegular = "regular"
	AccountKindGoogle  = "google"
)

// Account is a credential-holding identity. Accounts only authenticate and
// own profiles; content is always authored by a profile.
type Account struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, empty for federated accounts
	Kind      string    `json:"kind" gorm:"type:varchar(32);default:regular"`
	CreatedAt time.Time `json:"createdAt"`
}
