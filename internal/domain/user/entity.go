package user

// User represents a user record as exchanged with the /users API.
type User struct {
	ID    int64  `json:"id"`    // ID is assigned by the remote source (or provisionally by the client)
	Name  string `json:"name"`  // Name is the display name
	Email string `json:"email"` // Email is not format-checked
	Phone string `json:"phone"` // Phone is not format-checked
}

// Fields holds the three editable fields of a user.
type Fields struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// Editable field names accepted by Fields.Set.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// Fields returns a value copy of the editable fields of u.
func (u User) Fields() Fields {
	return Fields{Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// WithID builds a User from f carrying the given identifier.
func (f Fields) WithID(id int64) User {
	return User{ID: id, Name: f.Name, Email: f.Email, Phone: f.Phone}
}

// Set replaces one field by name. It reports false for an unknown field name.
func (f *Fields) Set(field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	default:
		return false
	}
	return true
}
