package models

// Church is a row of the churches table.
type Church struct {
	ChurchID string `db:"church_id"`
	Name     string `db:"name"`
	Timezone string `db:"timezone"`
	AuditFields
}

// UserChurchRole is a row of the user_church_roles table.
type UserChurchRole struct {
	UserID   string `db:"user_id"`
	ChurchID string `db:"church_id"`
	Role     string `db:"role"`
}
