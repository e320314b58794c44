package models

// Renewal represents a passport renewal request. Renewals are a much
// smaller record than first-time applications: identity is established by
// the existing passport number, so only a fresh photo is collected.
type Renewal struct {
	Base
	Reference      string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"reference"`
	Name           string            `gorm:"type:varchar(255);not null" json:"name"`
	Surname        string            `gorm:"type:varchar(255);not null" json:"surname"`
	PassportNumber string            `gorm:"type:varchar(50);not null" json:"passport_number"`
	District       District          `gorm:"type:varchar(50);not null" json:"district"`
	PhotoURL       string            `gorm:"type:text;not null" json:"photo_url"`
	Status         ApplicationStatus `gorm:"type:varchar(30);not null;default:'Processing'" json:"status"`
}
