package models

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanManageAllDocuments reports whether the role may update or delete
// documents it does not own.
func (r Role) CanManageAllDocuments() bool {
	return r == RoleAdmin
}

// CanViewAllReports reports whether the role sees reports for every
// document rather than only its own.
func (r Role) CanViewAllReports() bool {
	return r == RoleAdmin
}

// CanListUsers reports whether the role may enumerate all users.
func (r Role) CanListUsers() bool {
	return r == RoleAdmin
}
