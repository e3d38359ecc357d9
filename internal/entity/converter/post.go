package converter

import (
	"blog/internal/entity/db"
	"blog/internal/entity/dto"
)

// PostToPublic converts a db.Post to the reader view.
func PostToPublic(p *db.Post) *dto.PublicPost {
	if p == nil {
		return nil
	}
	return &dto.PublicPost{
		ID:         p.ID,
		Title:      p.Title,
		Body:       p.Body,
		Author:     p.Author,
		Tags:       p.Tags.ToSlice(),
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
	}
}
