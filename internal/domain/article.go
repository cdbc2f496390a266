package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Article is a blog post. Deleting an article is a soft delete unless forced.
type Article struct {
	BaseModel
	UUID      string         `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	AuthorID  uint           `gorm:"index;not null" json:"author_id"`
	Title     string         `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Summary   string         `gorm:"size:500" json:"summary"`
	Body      string         `gorm:"type:text" json:"body"`
	Published bool           `gorm:"not null;default:false" json:"published"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ArticleBrief is the list projection of an article.
type ArticleBrief struct {
	ID        uint      `json:"id"`
	UUID      string    `json:"uuid"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleDetail is the full projection of an article with its author and tags.
type ArticleDetail struct {
	Article
	Author UserBrief `gorm:"-" json:"author"`
	Tags   []string  `gorm:"-" json:"tags"`
}

// Tag labels articles. Tags have no soft delete column.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// ArticleTag binds a tag to an article.
type ArticleTag struct {
	ArticleID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

// ArticleSortField names a column articles can be ordered by.
type ArticleSortField string

const (
	ArticleSortID        ArticleSortField = "id"
	ArticleSortTitle     ArticleSortField = "title"
	ArticleSortCreatedAt ArticleSortField = "created_at"
	ArticleSortUpdatedAt ArticleSortField = "updated_at"
)

// Valid reports whether f is a sortable article column.
func (f ArticleSortField) Valid() bool {
	switch f {
	case ArticleSortID, ArticleSortTitle, ArticleSortCreatedAt, ArticleSortUpdatedAt:
		return true
	}
	return false
}

// ArticleQuery holds list filters for articles.
type ArticleQuery struct {
	AuthorID  uint
	Keyword   string
	Published *bool
}

// ArticleInput is the writable part of an article.
type ArticleInput struct {
	Title     string
	Summary   string
	Body      string
	Published bool
	Tags      []string
}

// ArticleService defines the business logic interface for articles.
type ArticleService interface {
	Publish(ctx context.Context, authorID uint, in ArticleInput) (*ArticleDetail, error)
	GetArticle(ctx context.Context, id uint) (*ArticleDetail, error)
	GetArticleByUUID(ctx context.Context, uuid string) (*ArticleDetail, error)
	GetBrief(ctx context.Context, id uint) (*ArticleBrief, error)
	ListArticles(ctx context.Context, q ArticleQuery, page Paginate, order string) (Paginated[ArticleBrief], error)
	UpdateArticle(ctx context.Context, id uint, in ArticleInput) (*ArticleDetail, error)
	DeleteArticle(ctx context.Context, id uint, force bool) error
	ListTags(ctx context.Context, page Paginate) (Paginated[Tag], error)
	DeleteTag(ctx context.Context, id uint) error
}
