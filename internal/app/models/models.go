package models

// SessionRole tags a session row with the kind of principal that owns it
type SessionRole string

const (
	SessionRoleUser  SessionRole = "user"
	SessionRoleAdmin SessionRole = "admin"
)

// AdminRole defines the permission tier of an admin account
type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
	AdminRoleAdmin      AdminRole = "ADMIN"
	AdminRoleEditor     AdminRole = "EDITOR"
)

// AdminStatus defines whether an admin account may sign in
type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "ACTIVE"
	AdminStatusInactive AdminStatus = "INACTIVE"
)
