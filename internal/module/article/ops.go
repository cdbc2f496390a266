package article

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/dao"
	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/module/user"
)

// PublishWithTags creates an article, finds or creates each tag and binds
// them. It yields the article id. Wrap it in dao.Transaction so a failure
// leaves no partial writes.
func PublishWithTags(authorID uint, in domain.ArticleInput) dao.Operation[uint] {
	return dao.OpFunc[uint](func(ctx context.Context, tx *gorm.DB) (uint, error) {
		if _, err := dao.Get(dao.Project[domain.UserBrief](user.UserByID{ID: authorID})).Run(ctx, tx); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, Errors.Wrap(CodeUnknownAuthor, err)
			}
			return 0, err
		}

		id, err := dao.Create(CreateArticle{
			AuthorID:  authorID,
			Title:     in.Title,
			Summary:   in.Summary,
			Body:      in.Body,
			Published: in.Published,
		}).Run(ctx, tx)
		if err != nil {
			return 0, err
		}
		if err := bindTags(ctx, tx, id, in.Tags); err != nil {
			return 0, err
		}
		return id, nil
	})
}

// ReviseWithTags updates an article and replaces its tag set. It yields
// the article id. Wrap it in dao.Transaction.
func ReviseWithTags(id uint, in domain.ArticleInput) dao.Operation[uint] {
	return dao.OpFunc[uint](func(ctx context.Context, tx *gorm.DB) (uint, error) {
		changed, err := dao.Update(UpdateArticle{
			ID:        id,
			Title:     in.Title,
			Summary:   in.Summary,
			Body:      in.Body,
			Published: in.Published,
		}).Run(ctx, tx)
		if err != nil {
			return 0, err
		}
		if !changed {
			return 0, gorm.ErrRecordNotFound
		}
		if _, err := dao.Delete(UnbindTags{ArticleID: id}).Run(ctx, tx); err != nil {
			return 0, err
		}
		if err := bindTags(ctx, tx, id, in.Tags); err != nil {
			return 0, err
		}
		return id, nil
	})
}

func bindTags(ctx context.Context, tx *gorm.DB, articleID uint, names []string) error {
	for _, name := range names {
		tagID, err := findOrCreateTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := dao.Create(BindTag{ArticleID: articleID, TagID: tagID}).Run(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func findOrCreateTag(ctx context.Context, tx *gorm.DB, name string) (uint, error) {
	tag, err := dao.Get[domain.Tag](TagByName{Name: name}).Run(ctx, tx)
	switch {
	case err == nil:
		return tag.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return dao.Create(CreateTag{Name: name}).Run(ctx, tx)
	default:
		return 0, err
	}
}
