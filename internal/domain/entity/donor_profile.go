package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonorProfile holds donation history for a registered donor.
// BloodGroup is nil until the donor has been typed.
type DonorProfile struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	FullName         string      `gorm:"type:varchar(255);not null" json:"full_name"`
	BloodGroup       *BloodGroup `gorm:"type:varchar(3);index" json:"blood_group,omitempty"`
	PhoneNumber      string      `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	City             string      `gorm:"type:varchar(100)" json:"city,omitempty"`
	LastDonationDate *time.Time  `gorm:"type:date" json:"last_donation_date,omitempty"`
	TotalDonations   int         `gorm:"not null;default:0" json:"total_donations"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DonorProfile) TableName() string {
	return "donor_profiles"
}

func (d *DonorProfile) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// HasKnownBloodGroup checks if the donor has a verified typing
func (d *DonorProfile) HasKnownBloodGroup() bool {
	return d.BloodGroup != nil && d.BloodGroup.IsValid()
}

// RecordDonation applies a collection on the given day to the history.
// A backdated collection never moves LastDonationDate backwards.
func (d *DonorProfile) RecordDonation(collectionDate time.Time) {
	day := DateOnly(collectionDate)
	d.TotalDonations++
	if d.LastDonationDate == nil || day.After(*d.LastDonationDate) {
		d.LastDonationDate = &day
	}
}
