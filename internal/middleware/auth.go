package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"chichapos/internal/apierror"

	"github.com/gin-gonic/gin"
)

// AdminAuth protects the operator surface with the static dashboard token.
// There is a single operator identity; comparison is constant-time.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		presentado := strings.TrimPrefix(header, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presentado), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido"))
			return
		}
		c.Next()
	}
}
