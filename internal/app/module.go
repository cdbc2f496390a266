package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// api serves public JSON routes, protected serves JSON routes that change
// state (behind bearer auth when enabled) and pages serves HTML routes.
type Module interface {
	RegisterRoutes(api, protected, pages *gin.RouterGroup)
}
