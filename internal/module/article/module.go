package article

import "github.com/gin-gonic/gin"

// ArticleModule implements the app.Module interface for the article domain.
type ArticleModule struct {
	handler *ArticleHandler
	pages   *ArticlePageHandler
}

// NewModule creates a new ArticleModule. Panics if either handler is nil.
func NewModule(h *ArticleHandler, p *ArticlePageHandler) *ArticleModule {
	if h == nil || p == nil {
		panic("article.NewModule: handlers must not be nil")
	}
	return &ArticleModule{handler: h, pages: p}
}

// RegisterRoutes registers article and tag API routes and the article pages.
func (m *ArticleModule) RegisterRoutes(api, protected, pages *gin.RouterGroup) {
	api.GET("/articles", m.handler.List)
	api.GET("/articles/by-uuid/:uuid", m.handler.GetByUUID)
	api.GET("/articles/:id", m.handler.Get)
	api.GET("/articles/:id/brief", m.handler.Brief)
	api.GET("/tags", m.handler.ListTags)

	protected.POST("/articles", m.handler.Create)
	protected.PUT("/articles/:id", m.handler.Update)
	protected.DELETE("/articles/:id", m.handler.Delete)
	protected.DELETE("/tags/:id", m.handler.DeleteTag)

	pages.GET("/articles", m.pages.ListPage)
	pages.GET("/articles/:id", m.pages.ShowPage)
}
