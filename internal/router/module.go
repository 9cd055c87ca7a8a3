package router

import "github.com/gin-gonic/gin"

// Module mounts one resource's routes under the API group. Name is used in
// startup logs.
type Module interface {
	Name() string
	Register(rg *gin.RouterGroup)
}
