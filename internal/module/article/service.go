package article

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/dao"
	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// articleService implements domain.ArticleService on top of the article
// conditions.
type articleService struct {
	db *gorm.DB
}

// NewArticleService creates a new ArticleService backed by db.
func NewArticleService(db *gorm.DB) domain.ArticleService {
	return &articleService{db: db}
}

// Publish creates an article with its tags in one transaction.
func (s *articleService) Publish(ctx context.Context, authorID uint, in domain.ArticleInput) (*domain.ArticleDetail, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, s.fail(ctx, "publish article", err)
	}

	id, err := dao.Transaction(PublishWithTags(authorID, in)).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "publish article", err)
	}
	return s.GetArticle(ctx, id)
}

// GetArticle returns the full detail of a live article.
func (s *articleService) GetArticle(ctx context.Context, id uint) (*domain.ArticleDetail, error) {
	d, err := dao.Get[domain.ArticleDetail](ArticleByID{ID: id}).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "get article", err)
	}
	return &d, nil
}

// GetArticleByUUID returns the full detail of a live article by public id.
func (s *articleService) GetArticleByUUID(ctx context.Context, id string) (*domain.ArticleDetail, error) {
	d, err := dao.Get[domain.ArticleDetail](ArticleByUUID{UUID: id}).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "get article", err)
	}
	return &d, nil
}

// GetBrief returns the list projection of a live article.
func (s *articleService) GetBrief(ctx context.Context, id uint) (*domain.ArticleBrief, error) {
	b, err := dao.Get(dao.Project[domain.ArticleBrief](ArticleByID{ID: id})).Run(ctx, s.db)
	if err != nil {
		return nil, s.fail(ctx, "get article", err)
	}
	return &b, nil
}

// ListArticles returns one page of article briefs.
func (s *articleService) ListArticles(ctx context.Context, q domain.ArticleQuery, page domain.Paginate, order string) (domain.Paginated[domain.ArticleBrief], error) {
	result, err := dao.Page[domain.ArticleBrief](ArticleFilter{ArticleQuery: q}, page, order).Run(ctx, s.db)
	if err != nil {
		return result, s.fail(ctx, "list articles", err)
	}
	return result, nil
}

// UpdateArticle rewrites an article and its tag set in one transaction.
func (s *articleService) UpdateArticle(ctx context.Context, id uint, in domain.ArticleInput) (*domain.ArticleDetail, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return nil, s.fail(ctx, "update article", err)
	}

	if _, err := dao.Transaction(ReviseWithTags(id, in)).Run(ctx, s.db); err != nil {
		return nil, s.fail(ctx, "update article", err)
	}
	return s.GetArticle(ctx, id)
}

// DeleteArticle soft deletes an article, or removes it with its tag
// bindings when force is set.
func (s *articleService) DeleteArticle(ctx context.Context, id uint, force bool) error {
	op := dao.Delete(ArticleByID{ID: id})
	if force {
		op = dao.Transaction(dao.ForceDelete(ArticleByID{ID: id}))
	}
	if _, err := op.Run(ctx, s.db); err != nil {
		return s.fail(ctx, "delete article", err)
	}
	return nil
}

// ListTags returns every tag ordered by name.
func (s *articleService) ListTags(ctx context.Context, page domain.Paginate) (domain.Paginated[domain.Tag], error) {
	result, err := dao.Page[domain.Tag](AllTags{}, page, "name asc").Run(ctx, s.db)
	if err != nil {
		return result, s.fail(ctx, "list tags", err)
	}
	return result, nil
}

// DeleteTag removes a tag from every article and then the tag itself.
func (s *articleService) DeleteTag(ctx context.Context, id uint) error {
	if _, err := dao.Transaction(dao.ForceDelete(DeleteTag{ID: id})).Run(ctx, s.db); err != nil {
		return s.fail(ctx, "delete tag", err)
	}
	return nil
}

func (s *articleService) fail(ctx context.Context, op string, err error) error {
	err = MapError(err)
	pkg.LogFailure(ctx, op, err)
	return err
}

// titleIndex names the articles.title unique index the way sqlite, mysql
// and postgres report it in a violation.
var titleIndex = []string{"articles.title", "idx_articles_title"}

// MapError converts a driver error from an article condition into the error
// taxonomy. A violation of the title index surfaces as a taken title; any
// other unique violation stays a plain database conflict.
func MapError(err error) error {
	err = pkg.DBError(err)
	if domain.IsConflict(err) && violates(err, titleIndex) {
		return Errors.Wrap(CodeTitleTaken, err)
	}
	return err
}

func violates(err error, index []string) bool {
	msg := err.Error()
	for _, name := range index {
		if strings.Contains(msg, name) {
			return true
		}
	}
	return false
}

// normalizeInput trims the input, drops duplicate tags and checks the
// bounds the database does not.
func normalizeInput(in domain.ArticleInput) (domain.ArticleInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Summary = strings.TrimSpace(in.Summary)

	if in.Title == "" {
		return in, domain.Validation("title is required")
	}
	if utf8.RuneCountInString(in.Title) > 200 {
		return in, domain.Validation("title must be at most 200 characters")
	}
	if utf8.RuneCountInString(in.Summary) > 500 {
		return in, domain.Validation("summary must be at most 500 characters")
	}

	seen := make(map[string]bool, len(in.Tags))
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return in, Errors.New(CodeEmptyTag)
		}
		if utf8.RuneCountInString(t) > 50 {
			return in, domain.Validation("tag names must be at most 50 characters")
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) > MaxTags {
		return in, Errors.New(CodeTooManyTags)
	}
	in.Tags = tags
	return in, nil
}
