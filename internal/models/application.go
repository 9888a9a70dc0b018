package models

import "time"

// Application - заявка на программу Campus Ambassador
type Application struct {
	BaseModel
	CampaignID *uint  `gorm:"index"`
	Name       string `gorm:"type:varchar(255);not null"`
	// Email хранится нормализованным (trim + lower), уникальность на уровне БД
	Email      string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone      string            `gorm:"type:varchar(50)"`
	University string            `gorm:"type:varchar(255);not null"`
	Major      string            `gorm:"type:varchar(255)"`
	Year       AcademicYear      `gorm:"type:varchar(20)"`
	Motivation string            `gorm:"type:text"`
	Status     ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	VerificationToken string    `gorm:"type:varchar(64);not null"`
	TokenIssuedAt     time.Time // от него считается срок жизни кода, если он включен
	Verified          bool      `gorm:"not null;default:false"`
	VerifiedAt        *time.Time

	Campaign *Campaign `gorm:"foreignKey:CampaignID;constraint:OnDelete:SET NULL"`
}

func (Application) TableName() string {
	return "campus_ambassadors"
}
