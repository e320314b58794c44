package models

import "time"

// Update is a public notice shown on the portal's updates page, e.g.
// office closures or changes to collection procedures.
type Update struct {
	Base
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	PublishedAt time.Time `gorm:"not null" json:"date"`
}
