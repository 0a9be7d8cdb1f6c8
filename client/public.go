package client

import "context"

// CarouselMinItems is the smallest collection the public site will rotate
// as a carousel. Below it the section renders statically.
const CarouselMinItems = 3

// CarouselReady reports whether a collection is large enough to rotate.
func CarouselReady[T any](items []T) bool {
	return len(items) >= CarouselMinItems
}

// Public site sections must render even when the API is down, so the read
// helpers swallow fetch errors and come back with an empty list.

func (c *Client) PublicPosts(ctx context.Context) []Post {
	items, err := c.Posts(ctx)
	if err != nil {
		return []Post{}
	}
	return items
}

func (c *Client) PublicCorporateVideos(ctx context.Context) []CorporateVideo {
	items, err := c.CorporateVideos(ctx)
	if err != nil {
		return []CorporateVideo{}
	}
	return items
}

func (c *Client) PublicReels(ctx context.Context) []Reel {
	items, err := c.Reels(ctx)
	if err != nil {
		return []Reel{}
	}
	return items
}

func (c *Client) PublicTeamVideos(ctx context.Context) []TeamVideo {
	items, err := c.TeamVideos(ctx)
	if err != nil {
		return []TeamVideo{}
	}
	return items
}

func (c *Client) PublicTestimonials(ctx context.Context) []Testimonial {
	items, err := c.Testimonials(ctx)
	if err != nil {
		return []Testimonial{}
	}
	return items
}

func (c *Client) PublicBlogs(ctx context.Context) []Blog {
	items, err := c.Blogs(ctx)
	if err != nil {
		return []Blog{}
	}
	return items
}

func (c *Client) PublicServices(ctx context.Context) []Service {
	items, err := c.Services(ctx)
	if err != nil {
		return []Service{}
	}
	return items
}
