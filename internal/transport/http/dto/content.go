package dto

type PostRequest struct {
	Image string `json:"image"`
}

type CorporateVideoRequest struct {
	Label       string `json:"label"`
	VideoURL    string `json:"videoUrl"`
	PosterURL   string `json:"posterUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Privacy     string `json:"privacy"`
	Status      string `json:"status"`
}

type ReelRequest struct {
	VideoURL  string `json:"videoUrl"`
	PosterURL string `json:"posterUrl"`
}

type TeamVideoRequest struct {
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl"`
	PosterURL string `json:"posterUrl"`
}

type TestimonialRequest struct {
	Author   string `json:"author"`
	Role     string `json:"role"`
	Company  string `json:"company"`
	Quote    string `json:"quote"`
	VideoURL string `json:"videoUrl"`
	Avatar   string `json:"avatar"`
}

type BlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Cover   string `json:"cover"`
}

type ServicePageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}
