package article

import "github.com/simp-lee/blogbase/internal/domain"

// ArticleRequest is the body of create and update requests. AuthorID is
// only read on create when the request is not authenticated.
type ArticleRequest struct {
	Title     string   `json:"title" form:"title" binding:"required,max=200"`
	Summary   string   `json:"summary" form:"summary" binding:"max=500"`
	Body      string   `json:"body" form:"body"`
	Published bool     `json:"published" form:"published"`
	Tags      []string `json:"tags" form:"tags"`
	AuthorID  uint     `json:"author_id" form:"author_id"`
}

func (r ArticleRequest) input() domain.ArticleInput {
	return domain.ArticleInput{
		Title:     r.Title,
		Summary:   r.Summary,
		Body:      r.Body,
		Published: r.Published,
		Tags:      r.Tags,
	}
}
