package model

type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                string   `json:"id" bson:"_id"`
	Role              Role     `json:"role" bson:"role"`
	DisplayName       string   `json:"display_name,omitempty" bson:"display_name,omitempty"`
	AuthorizedBookers []string `json:"authorized_bookers,omitempty" bson:"authorized_bookers,omitempty"`
}

// CanBeBookedBy reports whether bookerID may create bookings on this user's behalf.
func (u *User) CanBeBookedBy(bookerID string) bool {
	if u.ID == bookerID {
		return true
	}
	for _, id := range u.AuthorizedBookers {
		if id == bookerID {
			return true
		}
	}
	return false
}
