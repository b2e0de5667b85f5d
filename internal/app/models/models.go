package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleTeacher RoleType = "teacher"
	RoleStudent RoleType = "student"
)

// IDBand is the inclusive numeric range of user ids reserved for a role
type IDBand struct {
	Min int64
	Max int64
}

// Contains reports whether id falls inside the band
func (b IDBand) Contains(id int64) bool {
	return id >= b.Min && id <= b.Max
}

// roleBands partitions users.id by role
var roleBands = map[RoleType]IDBand{
	RoleAdmin:   {Min: 1, Max: 20},
	RoleTeacher: {Min: 21, Max: 100},
	RoleStudent: {Min: 101, Max: 9999},
}

// BandFor returns the id band for role
func BandFor(role RoleType) (IDBand, bool) {
	b, ok := roleBands[role]
	return b, ok
}

// RoleForID returns the role owning id, derived from its band
func RoleForID(id int64) (RoleType, bool) {
	for role, b := range roleBands {
		if b.Contains(id) {
			return role, true
		}
	}
	return "", false
}

// Gender values accepted on the admission form
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// EnrollmentStatusEnrolled is the status of a freshly admitted student
const EnrollmentStatusEnrolled = "Enrolled"

// Class names counted as plus-two (higher secondary)
var PlusTwoClassNames = []string{"Class 11", "Class 12"}
