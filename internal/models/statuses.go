package models

type ApplicationStatus string
type AcademicYear string
type CampaignStatus string
type AdminRole string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusVerified ApplicationStatus = "verified"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	AcademicYearFreshman  AcademicYear = "freshman"
	AcademicYearSophomore AcademicYear = "sophomore"
	AcademicYearJunior    AcademicYear = "junior"
	AcademicYearSenior    AcademicYear = "senior"
	AcademicYearGraduate  AcademicYear = "graduate"

	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusArchived CampaignStatus = "archived"

	AdminRoleAdmin  AdminRole = "admin"
	AdminRoleEditor AdminRole = "editor"
)

// ApplicationStatuses - закрытый список, порядок соответствует вкладкам дашборда
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusVerified,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

var AcademicYears = []AcademicYear{
	AcademicYearFreshman,
	AcademicYearSophomore,
	AcademicYearJunior,
	AcademicYearSenior,
	AcademicYearGraduate,
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsValid - пустой год допустим, поле необязательное
func (y AcademicYear) IsValid() bool {
	if y == "" {
		return true
	}
	for _, v := range AcademicYears {
		if y == v {
			return true
		}
	}
	return false
}

func (s CampaignStatus) IsValid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusArchived:
		return true
	}
	return false
}
