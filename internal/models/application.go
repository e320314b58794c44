package models

import (
	"time"
)

// District is one of the ten administrative districts of Lesotho
type District string

const (
	DistrictMaseru      District = "Maseru"
	DistrictBerea       District = "Berea"
	DistrictMafeteng    District = "Mafeteng"
	DistrictMohalesHoek District = "Mohale'shoek"
	DistrictQuthing     District = "Quthing"
	DistrictLeribe      District = "Leribe"
	DistrictQachasNeck  District = "Qacha'sneck"
	DistrictBothaBothe  District = "Botha-Bothe"
	DistrictMokhotlong  District = "Mokhotlong"
	DistrictThabaTseka  District = "Thaba-Tseka"
)

// Districts lists every valid district, in the order shown on the form
var Districts = []District{
	DistrictMaseru, DistrictBerea, DistrictMafeteng, DistrictMohalesHoek,
	DistrictQuthing, DistrictLeribe, DistrictQachasNeck, DistrictBothaBothe,
	DistrictMokhotlong, DistrictThabaTseka,
}

// ValidDistrict reports whether d is a member of the district enumeration
func ValidDistrict(d District) bool {
	for _, known := range Districts {
		if d == known {
			return true
		}
	}
	return false
}

// Sex is the applicant's sex as recorded on the passport
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// ValidSex reports whether s is a member of the sex enumeration
func ValidSex(s Sex) bool {
	return s == SexMale || s == SexFemale
}

// PassportType is the booklet size requested by the applicant
type PassportType string

const (
	PassportType32 PassportType = "32 pages"
	PassportType64 PassportType = "64 pages"
)

// ValidPassportType reports whether p is a member of the passport type enumeration
func ValidPassportType(p PassportType) bool {
	return p == PassportType32 || p == PassportType64
}

// Application represents a submitted passport application.
// A row is created exactly once, after validation and all three artifact
// uploads have succeeded; it is never updated by the applicant. The status
// column is advanced by the back office.
type Application struct {
	Base
	Reference    string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"reference"`
	FullName     string            `gorm:"type:varchar(255);not null" json:"full_name"`
	Email        string            `gorm:"type:varchar(255);not null" json:"email"`
	DOB          time.Time         `gorm:"type:date;not null" json:"dob"`
	IDNumber     string            `gorm:"type:varchar(100);not null" json:"id_number"`
	Nationality  string            `gorm:"type:varchar(100);not null" json:"nationality"`
	BirthPlace   string            `gorm:"type:varchar(255);not null" json:"birth_place"`
	District     District          `gorm:"type:varchar(50);not null" json:"district"`
	HeadChief    string            `gorm:"type:varchar(255);not null" json:"head_chief"`
	Sex          Sex               `gorm:"type:varchar(10);not null" json:"sex"`
	PassportType PassportType      `gorm:"type:varchar(20);not null;default:'32 pages'" json:"passport_type"`
	GuardianName *string           `gorm:"type:varchar(255)" json:"guardian_name,omitempty"`
	GuardianID   *string           `gorm:"type:varchar(100)" json:"guardian_id,omitempty"`
	PhotoURL     string            `gorm:"type:text;not null" json:"photo_url"`
	DocsURL      string            `gorm:"type:text;not null" json:"docs_url"`
	SignatureURL string            `gorm:"type:text;not null" json:"signature_url"`
	Status       ApplicationStatus `gorm:"type:varchar(30);not null;default:'Processing'" json:"status"`
}

// IsMinor reports whether the applicant needs a guardian on record. The
// policy is a coarse calendar-year difference, not a full date comparison.
func (a *Application) IsMinor(now time.Time) bool {
	return AgeAt(a.DOB, now) < GuardianAgeThreshold
}

// GuardianAgeThreshold is the age below which guardian details are mandatory
const GuardianAgeThreshold = 16

// AgeAt computes the applicant's age as a calendar-year difference
func AgeAt(dob, now time.Time) int {
	return now.Year() - dob.Year()
}
