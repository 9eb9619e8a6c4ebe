package models

import "time"

// Profile kinds. A profile is either a Person or a Company; kind-specific
// fields are dispatched by switching on Kind.
const (
	ProfileKindPerson  = "Person"
	ProfileKindCompany = "Company"
)

// Defaults applied to new Person profiles.
const (
	DefaultAvatar = "https://imgur.com/uyUFvIp"
	DefaultBio    = "This user has not written a bio yet."
)

// Profile is a content-authoring identity owned by exactly one account.
// Person profiles use FirstName/LastName, Company profiles use Name; the
// unused fields stay empty and are omitted from JSON.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Owner     string    `json:"owner" gorm:"index;type:varchar(36)"`
	Kind      string    `json:"kind" gorm:"type:varchar(16)"`
	FirstName string    `json:"firstName,omitempty" gorm:"type:varchar(100)"`
	LastName  string    `json:"lastName,omitempty" gorm:"type:varchar(100)"`
	Name      string    `json:"name,omitempty" gorm:"type:varchar(100)"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName is the name snapshotted onto comments at creation time.
func (p Profile) DisplayName() string {
	if p.Kind == ProfileKindPerson {
		return p.FirstName + " " + p.LastName
	}
	return p.Name
}
