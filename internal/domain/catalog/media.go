package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Media is an image or document stored in object storage and attached to a catalog record
type Media struct {
	shared.BaseEntity
	shared.SoftDelete
	OwnerTable  string    `gorm:"type:varchar(64);not null;index:idx_media_owner,priority:1" json:"owner_table" validate:"required,oneof=departments categories brands product_templates product_masters"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_media_owner,priority:2" json:"owner"`
	ObjectKey   string    `gorm:"type:varchar(500);not null;uniqueIndex" json:"object_key" validate:"required,max=500"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name" validate:"required,max=255"`
	ContentType string    `gorm:"type:varchar(100);not null" json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp image/gif application/pdf"`
	AltText     *string   `gorm:"type:varchar(255)" json:"alt_text" validate:"omitempty,max=255"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName returns the table name for GORM
func (Media) TableName() string {
	return "media"
}

// NewMedia creates a pending media record; it becomes ACTIVE once the upload is confirmed
func NewMedia(ownerTable string, ownerID uuid.UUID, fileName, contentType string) *Media {
	m := &Media{
		BaseEntity:  shared.NewBaseEntity(),
		SoftDelete:  shared.SoftDelete{Status: shared.StatusPending},
		OwnerTable:  ownerTable,
		OwnerID:     ownerID,
		FileName:    fileName,
		ContentType: contentType,
	}
	m.ObjectKey = ownerTable + "/" + ownerID.String() + "/" + m.ID.String() + "-" + shared.Slugify(fileName)
	return m
}
