package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PostStatus represents the moderation status of a listing.
type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"
	PostStatusApproved PostStatus = "approved"
)

// MaxPostImages bounds the number of images attached to a single listing.
const MaxPostImages = 10

// Post represents a real-estate listing subject to moderation. A listing is
// created pending and becomes publicly visible only once an admin approves it.
type Post struct {
	ID          uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string           `json:"title" gorm:"size:255;not null"`
	Content     string           `json:"content" gorm:"type:text;not null"`
	Note        string           `json:"note,omitempty" gorm:"type:text"`
	Author      string           `json:"author" gorm:"size:255"` // display name snapshot taken at creation
	AuthorID    uint             `json:"author_id" gorm:"not null;index"`
	Status      PostStatus       `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Price       *decimal.Decimal `json:"price,omitempty" gorm:"type:decimal(12,2)"`
	Location    string           `json:"location,omitempty" gorm:"size:255;index"`
	RatingAvg   float64          `json:"rating_avg" gorm:"not null;default:0"`
	RatingCount int              `json:"rating_count" gorm:"not null;default:0"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Images  []PostImage `json:"images,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Ratings []Rating    `json:"ratings,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostImage is one uploaded image URL attached to a listing, ordered by
// Position.
type PostImage struct {
	ID       uint      `json:"-" gorm:"primaryKey"`
	PostID   uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	URL      string    `json:"url" gorm:"size:512;not null"`
	Position int       `json:"position" gorm:"not null;default:0"`
}

// Rating is a single 1-5 star rating recorded against a listing. The listing
// keeps a denormalized average and count maintained atomically on insert.
type Rating struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	PostID    uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Stars     int       `json:"stars" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
