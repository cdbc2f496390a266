package article

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// Page templates.
const (
	listTemplate = "article/list.html"
	showTemplate = "article/show.html"
)

// ArticlePageHandler renders the public HTML pages. Only published articles
// are visible there; failures render as error pages through pkg.Error.
type ArticlePageHandler struct {
	svc    domain.ArticleService
	limits pkg.PageLimits
}

// NewArticlePageHandler creates a new ArticlePageHandler with the given service.
func NewArticlePageHandler(svc domain.ArticleService, limits pkg.PageLimits) *ArticlePageHandler {
	return &ArticlePageHandler{svc: svc, limits: limits}
}

// ListPage renders the published articles, newest first.
// GET /articles?page=&per_page=&q=
func (h *ArticlePageHandler) ListPage(c *gin.Context) {
	published := true
	q := domain.ArticleQuery{Keyword: c.Query("q"), Published: &published}

	result, err := h.svc.ListArticles(c.Request.Context(), q, h.limits.Parse(c), defaultOrder.Clause())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.HTML(http.StatusOK, listTemplate, gin.H{
		"Title":    "Articles",
		"Articles": result.Data,
		"Page":     result,
		"Keyword":  q.Keyword,
		"BaseURL":  "/articles",
	})
}

// ShowPage renders one published article.
// GET /articles/:id
func (h *ArticlePageHandler) ShowPage(c *gin.Context) {
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
	if !article.Published {
		pkg.Error(c, domain.ErrNotFound)
		return
	}

	c.HTML(http.StatusOK, showTemplate, gin.H{
		"Title":   article.Title,
		"Article": article,
	})
}
