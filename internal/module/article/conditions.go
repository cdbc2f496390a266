package article

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// CreateArticle inserts an article with a fresh public UUID.
type CreateArticle struct {
	AuthorID  uint
	Title     string
	Summary   string
	Body      string
	Published bool
}

// Create implements dao.CreateDAO.
func (c CreateArticle) Create(ctx context.Context, db *gorm.DB) (uint, error) {
	a := domain.Article{
		UUID:      uuid.NewString(),
		AuthorID:  c.AuthorID,
		Title:     c.Title,
		Summary:   c.Summary,
		Body:      c.Body,
		Published: c.Published,
	}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

// ArticleByID matches one live article by primary key. Reading it yields the
// full detail; as a Selector it serves any projection of the article.
type ArticleByID struct {
	ID uint
}

// Select implements dao.Selector.
func (c ArticleByID) Select(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Article{}).Where("id = ?", c.ID)
}

// Read implements dao.ReadDAO[domain.ArticleDetail].
func (c ArticleByID) Read(ctx context.Context, db *gorm.DB) (domain.ArticleDetail, error) {
	return readDetail(ctx, db, c)
}

// Delete soft deletes the article. Its tag bindings are kept so that a
// restore brings them back.
func (c ArticleByID) Delete(ctx context.Context, db *gorm.DB) error {
	return affectOne(db.WithContext(ctx).Delete(&domain.Article{}, c.ID))
}

// ForceDelete removes the article row, soft deleted or not, together with its
// tag bindings. Run it inside a transaction.
func (c ArticleByID) ForceDelete(ctx context.Context, db *gorm.DB) error {
	if err := (UnbindTags{ArticleID: c.ID}).Delete(ctx, db); err != nil {
		return err
	}
	return affectOne(db.WithContext(ctx).Unscoped().Delete(&domain.Article{}, c.ID))
}

// ArticleByUUID matches one live article by its public UUID.
type ArticleByUUID struct {
	UUID string
}

// Select implements dao.Selector.
func (c ArticleByUUID) Select(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.Article{}).Where("uuid = ?", c.UUID)
}

// Read implements dao.ReadDAO[domain.ArticleDetail].
func (c ArticleByUUID) Read(ctx context.Context, db *gorm.DB) (domain.ArticleDetail, error) {
	return readDetail(ctx, db, c)
}

func readDetail(ctx context.Context, db *gorm.DB, sel interface{ Select(*gorm.DB) *gorm.DB }) (domain.ArticleDetail, error) {
	db = db.WithContext(ctx)

	var d domain.ArticleDetail
	if err := sel.Select(db).First(&d.Article).Error; err != nil {
		return d, err
	}

	var authors []domain.UserBrief
	if err := db.Model(&domain.User{}).Where("id = ?", d.AuthorID).Limit(1).Find(&authors).Error; err != nil {
		return d, err
	}
	if len(authors) > 0 {
		d.Author = authors[0]
	} else {
		d.Author = domain.UserBrief{ID: d.AuthorID}
	}

	tags, err := tagNames(db, d.ID)
	if err != nil {
		return d, err
	}
	d.Tags = tags
	return d, nil
}

func tagNames(db *gorm.DB, articleID uint) ([]string, error) {
	names := []string{}
	err := db.Model(&domain.Tag{}).
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("tags.name").
		Pluck("tags.name", &names).Error
	if names == nil {
		names = []string{}
	}
	return names, err
}

// UpdateArticle rewrites the editable columns of one live article.
type UpdateArticle struct {
	ID        uint
	Title     string
	Summary   string
	Body      string
	Published bool
}

// Update implements dao.UpdateDAO.
func (c UpdateArticle) Update(ctx context.Context, db *gorm.DB) (bool, error) {
	res := db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"title":     c.Title,
			"summary":   c.Summary,
			"body":      c.Body,
			"published": c.Published,
		})
	return res.RowsAffected > 0, res.Error
}

// ArticleFilter selects the live articles matching a list query. Keyword
// matches title or summary by substring.
type ArticleFilter struct {
	domain.ArticleQuery
}

// Select implements dao.Selector.
func (c ArticleFilter) Select(db *gorm.DB) *gorm.DB {
	q := db.Model(&domain.Article{})
	if c.AuthorID != 0 {
		q = q.Where("author_id = ?", c.AuthorID)
	}
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		like := pkg.Contains(kw)
		q = q.Where("title LIKE ? "+pkg.LikeEscape+" OR summary LIKE ? "+pkg.LikeEscape, like, like)
	}
	if c.Published != nil {
		q = q.Where("published = ?", *c.Published)
	}
	return q
}

// CreateTag inserts a tag and yields its id. A tag that already exists,
// including one inserted concurrently, yields the existing id.
type CreateTag struct {
	Name string
}

// Create implements dao.CreateDAO.
func (c CreateTag) Create(ctx context.Context, db *gorm.DB) (uint, error) {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&domain.Tag{Name: c.Name}).Error
	if err != nil {
		return 0, err
	}
	t, err := TagByName{Name: c.Name}.Read(ctx, db)
	if err != nil {
		return 0, err
	}
	return t.ID, nil
}

// TagByName matches one tag by its unique name.
type TagByName struct {
	Name string
}

// Read implements dao.ReadDAO[domain.Tag].
func (c TagByName) Read(ctx context.Context, db *gorm.DB) (domain.Tag, error) {
	var t domain.Tag
	err := db.WithContext(ctx).Where("name = ?", c.Name).First(&t).Error
	return t, err
}

// AllTags selects every tag.
type AllTags struct{}

// Select implements dao.Selector.
func (AllTags) Select(db *gorm.DB) *gorm.DB { return db.Model(&domain.Tag{}) }

// BindTag attaches a tag to an article. Binding twice is a no-op.
type BindTag struct {
	ArticleID uint
	TagID     uint
}

// Create implements dao.CreateDAO and yields the tag id.
func (c BindTag) Create(ctx context.Context, db *gorm.DB) (uint, error) {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.ArticleTag{ArticleID: c.ArticleID, TagID: c.TagID}).Error
	if err != nil {
		return 0, err
	}
	return c.TagID, nil
}

// UnbindTags detaches every tag from an article.
type UnbindTags struct {
	ArticleID uint
}

// Delete implements dao.DeleteDAO.
func (c UnbindTags) Delete(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Where("article_id = ?", c.ArticleID).Delete(&domain.ArticleTag{}).Error
}

// DeleteTag removes a tag and its bindings. Tags have no soft delete, so
// ForceDelete falls back to this. Run it inside a transaction.
type DeleteTag struct {
	ID uint
}

// Delete implements dao.DeleteDAO.
func (c DeleteTag) Delete(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.Where("tag_id = ?", c.ID).Delete(&domain.ArticleTag{}).Error; err != nil {
		return err
	}
	return affectOne(db.Delete(&domain.Tag{}, c.ID))
}

// affectOne turns a statement that matched nothing into gorm.ErrRecordNotFound.
func affectOne(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
