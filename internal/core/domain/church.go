package domain

// Church timezones must resolve on images without a zoneinfo database.
import _ "time/tzdata"

// DefaultChurchTimezone is used when a church has no timezone configured.
const DefaultChurchTimezone = "America/Sao_Paulo"

// Church is the tenant: every transaction, role and query belongs to one.
type Church struct {
	ChurchID string `json:"churchID"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // IANA name
	AuditFields
}
