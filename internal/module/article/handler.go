package article

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/middleware"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// sortKey is the query key of the sort statement.
const sortKey = "sorts"

// defaultOrder applies when a list request carries no sort statement.
var defaultOrder = pkg.SortStatement[domain.ArticleSortField]{
	pkg.Desc(domain.ArticleSortCreatedAt),
	pkg.Desc(domain.ArticleSortID),
}

// ArticleHandler handles REST API requests for articles and tags.
type ArticleHandler struct {
	svc    domain.ArticleService
	limits pkg.PageLimits
}

// NewArticleHandler creates a new ArticleHandler with the given service.
func NewArticleHandler(svc domain.ArticleService, limits pkg.PageLimits) *ArticleHandler {
	return &ArticleHandler{svc: svc, limits: limits}
}

// Create handles POST /api/v1/articles. The author is the authenticated
// user, or author_id from the body when authentication is off.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req ArticleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	authorID, ok := middleware.CurrentUserID(c)
	if !ok {
		authorID = req.AuthorID
	}
	if authorID == 0 {
		pkg.Error(c, domain.Validation("author_id is required"))
		return
	}

	article, err := h.svc.Publish(c.Request.Context(), authorID, req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, article)
}

// Get handles GET /api/v1/articles/:id.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	article, err := h.svc.GetArticle(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, article)
}

// GetByUUID handles GET /api/v1/articles/by-uuid/:uuid.
func (h *ArticleHandler) GetByUUID(c *gin.Context) {
	article, err := h.svc.GetArticleByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, article)
}

// Brief handles GET /api/v1/articles/:id/brief.
func (h *ArticleHandler) Brief(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	brief, err := h.svc.GetBrief(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, brief)
}

// List handles GET /api/v1/articles.
// Query: page, per_page, author_id, q, published, sorts[i][mode], sorts[i][field].
func (h *ArticleHandler) List(c *gin.Context) {
	order, err := pkg.ParseSortStatement[domain.ArticleSortField](c.Request.URL.Query(), sortKey)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if len(order) == 0 {
		order = defaultOrder
	}

	q, err := parseQuery(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	result, err := h.svc.ListArticles(c.Request.Context(), q, h.limits.Parse(c), order.Clause())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, result)
}

// Update handles PUT /api/v1/articles/:id.
func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req ArticleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	article, err := h.svc.UpdateArticle(c.Request.Context(), id, req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, article)
}

// Delete handles DELETE /api/v1/articles/:id. With force=true the article
// is removed for good instead of being soft deleted.
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	force, err := parseBool(c.Query("force"), "force")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteArticle(c.Request.Context(), id, force != nil && *force); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// ListTags handles GET /api/v1/tags.
func (h *ArticleHandler) ListTags(c *gin.Context) {
	result, err := h.svc.ListTags(c.Request.Context(), h.limits.Parse(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, result)
}

// DeleteTag handles DELETE /api/v1/tags/:id.
func (h *ArticleHandler) DeleteTag(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	if err := h.svc.DeleteTag(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

func parseQuery(c *gin.Context) (domain.ArticleQuery, error) {
	q := domain.ArticleQuery{Keyword: c.Query("q")}
	if raw := c.Query("author_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 || id > uint64(^uint(0)) {
			return q, domain.Validation("invalid author_id: " + raw)
		}
		q.AuthorID = uint(id)
	}
	published, err := parseBool(c.Query("published"), "published")
	if err != nil {
		return q, err
	}
	q.Published = published
	return q, nil
}

// parseBool returns nil for an empty value.
func parseBool(raw, name string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Validation("invalid " + name + ": " + raw)
	}
	return &b, nil
}
