package client

import "time"

type Post struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type CorporateVideo struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	VideoURL    string    `json:"videoUrl"`
	PosterURL   string    `json:"posterUrl"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Privacy     string    `json:"privacy"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Reel struct {
	ID        string    `json:"id"`
	VideoURL  string    `json:"videoUrl"`
	PosterURL string    `json:"posterUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type Testimonial struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Quote     string    `json:"quote"`
	VideoURL  string    `json:"videoUrl"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type TeamVideo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	VideoURL  string    `json:"videoUrl"`
	PosterURL string    `json:"posterUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CoverURL  string    `json:"coverUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IconURL     string    `json:"iconUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PostInput struct {
	Image string `json:"image"`
}

type CorporateVideoInput struct {
	Label       string `json:"label,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Privacy     string `json:"privacy,omitempty"`
	Status      string `json:"status,omitempty"`
}

type ReelInput struct {
	VideoURL  string `json:"videoUrl,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}

type TeamVideoInput struct {
	Title     string `json:"title,omitempty"`
	VideoURL  string `json:"videoUrl,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}

type TestimonialInput struct {
	Author   string `json:"author,omitempty"`
	Role     string `json:"role,omitempty"`
	Company  string `json:"company,omitempty"`
	Quote    string `json:"quote,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

type BlogInput struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Cover   string `json:"cover,omitempty"`
}

type ServiceInput struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}
