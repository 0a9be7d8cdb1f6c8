package content

import (
	"time"

	"github.com/google/uuid"
)

// Every entity is an independent document: no cross-entity references,
// full-document replacement on edit, last write wins.

type Post struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	AssetKey  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type CorporateVideo struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	VideoURL    string    `json:"videoUrl"`
	PosterURL   string    `json:"posterUrl"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Privacy     Privacy   `json:"privacy"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Reel struct {
	ID        uuid.UUID `json:"id"`
	VideoURL  string    `json:"videoUrl"`
	PosterURL string    `json:"posterUrl"`
	AssetKey  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Testimonial struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Quote     string    `json:"quote"`
	VideoURL  string    `json:"videoUrl"`
	AvatarURL string    `json:"avatarUrl"`
	AssetKey  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type TeamVideo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	VideoURL  string    `json:"videoUrl"`
	PosterURL string    `json:"posterUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type Blog struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	// Content is raw markup rendered verbatim by the site.
	Content   string    `json:"content"`
	CoverURL  string    `json:"coverUrl"`
	AssetKey  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ServicePage struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconURL     string    `json:"iconUrl"`
	AssetKey    string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
