package domain

import "time"

// MarketListing is a crop sale offer on the marketplace.
type MarketListing struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CropType    string    `json:"crop_type"`
	Variety     string    `json:"variety,omitempty"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	ContactInfo string    `json:"contact_info"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (l *MarketListing) EntityID() string { return l.ID }

func (l *MarketListing) OwnerID() string { return l.UserID }

func (l *MarketListing) CreatedTime() time.Time { return l.CreatedAt }

type CreateListingRequest struct {
	CropType    string  `json:"crop_type" validate:"required"`
	Variety     string  `json:"variety"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Location    string  `json:"location" validate:"required"`
	ContactInfo string  `json:"contact_info" validate:"required"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}
