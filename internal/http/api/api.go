package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/http/middleware"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

func Errorf(code int, format string, args ...any) *APIError {
	return &APIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AuthedHandler runs behind JWTMiddleware and receives the resolved
// operator account.
type AuthedHandler func(ctx *gin.Context, user *model.User) (any, *APIError)

// Handler serves unauthenticated routes; device endpoints identify the
// caller by device_id in the payload instead of a session.
type Handler func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h AuthedHandler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpoint(h Handler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

// Controller is the mounting surface handed to Modules.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h AuthedHandler)    { c.Group.GET(path, ResolveEndpointWithAuth(h)) }
func (c *Controller) POST(path string, h AuthedHandler)   { c.Group.POST(path, ResolveEndpointWithAuth(h)) }
func (c *Controller) PUT(path string, h AuthedHandler)    { c.Group.PUT(path, ResolveEndpointWithAuth(h)) }
func (c *Controller) DELETE(path string, h AuthedHandler) { c.Group.DELETE(path, ResolveEndpointWithAuth(h)) }

func (c *Controller) PUBLIC_GET(path string, h Handler)  { c.Group.GET(path, ResolveEndpoint(h)) }
func (c *Controller) PUBLIC_POST(path string, h Handler) { c.Group.POST(path, ResolveEndpoint(h)) }

// Raw registers a plain gin handler for routes that stream bodies
// instead of returning JSON.
func (c *Controller) Raw(method, path string, h gin.HandlerFunc) {
	c.Group.Handle(method, path, h)
}
