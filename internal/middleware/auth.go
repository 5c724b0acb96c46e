package middleware

import (
	"net/http"
	"strings"

	"micromercado/internal/apierror"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ClaimsKey = "claims"
	SesionKey = "sesion"
)

// SesionAuth validates the Bearer token and resolves the live cashier
// session it names. A valid signature alone is not enough: a token whose
// session was logged out or replaced is rejected.
func SesionAuth(secret string, sesiones service.SesionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		claims, err := service.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		ses, err := sesiones.Obtener(claims.SesionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sesion cerrada o reemplazada"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(SesionKey, ses)
		c.Next()
	}
}

// GetSesion returns the session stored by SesionAuth, nil on public routes.
func GetSesion(c *gin.Context) *service.Sesion {
	ses, _ := c.Get(SesionKey)
	s, _ := ses.(*service.Sesion)
	return s
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *service.SesionClaims {
	v, _ := c.Get(ClaimsKey)
	claims, _ := v.(*service.SesionClaims)
	return claims
}
