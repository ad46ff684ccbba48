package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShelfLifeDays is the storage window of a collected bag
const ShelfLifeDays = 42

// DefaultBagVolumeML is the standard whole-blood collection volume
const DefaultBagVolumeML = 450

// BagStatus represents the disposition of a physical blood bag
type BagStatus string

const (
	BagStatusAvailable   BagStatus = "available"
	BagStatusUsed        BagStatus = "used"
	BagStatusExpired     BagStatus = "expired"
	BagStatusQuarantined BagStatus = "quarantined"
)

// bagTransitions is the only place the bag state machine is defined.
// used and expired are terminal.
var bagTransitions = map[BagStatus][]BagStatus{
	BagStatusAvailable:   {BagStatusUsed, BagStatusExpired, BagStatusQuarantined},
	BagStatusQuarantined: {BagStatusAvailable, BagStatusUsed, BagStatusExpired},
	BagStatusUsed:        nil,
	BagStatusExpired:     nil,
}

// IsValid checks if the status is a known bag status
func (s BagStatus) IsValid() bool {
	_, ok := bagTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves this status
func (s BagStatus) IsTerminal() bool {
	return s.IsValid() && len(bagTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step
func (s BagStatus) CanTransitionTo(next BagStatus) bool {
	for _, allowed := range bagTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BloodBag is a single physical unit of collected blood.
// Rows are never deleted; status changes go through the bag ledger.
type BloodBag struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	BagCode        string           `gorm:"type:varchar(32);uniqueIndex;not null" json:"bag_code"`
	BloodGroup     BloodGroup       `gorm:"type:varchar(3);not null;index:idx_blood_bags_group_status" json:"blood_group"`
	DonorID        *uuid.UUID       `gorm:"type:uuid;index" json:"donor_id,omitempty"`
	CollectionDate time.Time        `gorm:"type:date;not null" json:"collection_date"`
	ExpiryDate     time.Time        `gorm:"type:date;not null;index" json:"expiry_date"`
	Status         BagStatus        `gorm:"type:varchar(20);not null;default:'available';index:idx_blood_bags_group_status" json:"status"`
	VolumeML       int              `gorm:"not null;default:450" json:"volume_ml"`
	Hemoglobin     *decimal.Decimal `gorm:"type:decimal(4,1)" json:"hemoglobin,omitempty"`
	Notes          string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Donor *DonorProfile `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
}

func (BloodBag) TableName() string {
	return "blood_bags"
}

func (b *BloodBag) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ExpiryFor returns the expiry date of a bag collected on collectionDate
func ExpiryFor(collectionDate time.Time) time.Time {
	return DateOnly(collectionDate).AddDate(0, 0, ShelfLifeDays)
}

// IsAvailable checks if bag can be offered for issuance
func (b *BloodBag) IsAvailable() bool {
	return b.Status == BagStatusAvailable
}

// IsExpiredOn reports whether the shelf life has run out on the given day
func (b *BloodBag) IsExpiredOn(day time.Time) bool {
	return DateOnly(day).After(DateOnly(b.ExpiryDate))
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in UTC
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}
