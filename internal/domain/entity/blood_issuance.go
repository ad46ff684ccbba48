package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BloodIssuance is the receipt of a bag given to a patient. It is written
// once, in the same transaction that marks the bag used, and never updated.
type BloodIssuance struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BagID           uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"bag_id"`
	RequestID       *uuid.UUID `gorm:"type:uuid;index" json:"request_id,omitempty"`
	PatientName     string     `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientAge      int        `gorm:"not null;default:0" json:"patient_age"`
	PatientGender   string     `gorm:"type:char(1)" json:"patient_gender,omitempty"`
	Hospital        string     `gorm:"type:varchar(255);not null" json:"hospital"`
	Ward            string     `gorm:"type:varchar(100)" json:"ward,omitempty"`
	ReferringDoctor string     `gorm:"type:varchar(255)" json:"referring_doctor,omitempty"`
	IssueDate       time.Time  `gorm:"type:date;not null;index" json:"issue_date"`
	IssuedBy        uuid.UUID  `gorm:"type:uuid;not null" json:"issued_by"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Bag     *BloodBag     `gorm:"foreignKey:BagID" json:"bag,omitempty"`
	Request *BloodRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}

func (BloodIssuance) TableName() string {
	return "blood_issuances"
}

func (i *BloodIssuance) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PatientDetails is the recipient side of an issuance
type PatientDetails struct {
	Name            string
	Age             int
	Gender          string
	Hospital        string
	Ward            string
	ReferringDoctor string
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
