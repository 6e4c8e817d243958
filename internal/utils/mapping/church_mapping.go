package mapping

import (
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	"github.com/SscSPs/church_finance_app/internal/models"
)

// ToDomainChurch converts a model Church to a domain Church
func ToDomainChurch(m models.Church) domain.Church {
	return domain.Church{
		ChurchID:    m.ChurchID,
		Name:        m.Name,
		Timezone:    m.Timezone,
		AuditFields: domain.AuditFields(m.AuditFields),
	}
}

// ToDomainRoles keeps only the known roles of the given rows.
func ToDomainRoles(ms []models.UserChurchRole) []domain.Role {
	roles := make([]domain.Role, 0, len(ms))
	for _, m := range ms {
		r := domain.Role(m.Role)
		if r.IsValid() {
			roles = append(roles, r)
		}
	}
	return roles
}
