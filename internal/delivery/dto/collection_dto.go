package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordCollectionRequest struct {
	DonorID        uuid.UUID        `json:"donor_id" validate:"required"`
	CollectionDate string           `json:"collection_date" validate:"required"`
	VolumeML       int              `json:"volume_ml" validate:"omitempty,gte=100,lte=600"`
	Hemoglobin     *decimal.Decimal `json:"hemoglobin"`
	Notes          string           `json:"notes" validate:"max=1000"`
}

type CollectionResponse struct {
	Bag   BagResponse   `json:"bag"`
	Donor DonorResponse `json:"donor"`
}
