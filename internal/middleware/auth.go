package middleware

import (
	"errors"
	"net/http"

	"restaurant_backend/internal/auth"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate parses the bearer token and stores the principal on the gin
// context. Requests without a valid token are rejected here.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := tokens.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			var failure *auth.Failure
			if errors.As(err, &failure) {
				c.AbortWithStatusJSON(failure.Status(), gin.H{"success": false, "message": failure.Message()})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func StaffFrom(c *gin.Context) (auth.StaffPrincipal, bool) {
	p, _ := PrincipalFrom(c)
	staff, ok := p.(auth.StaffPrincipal)
	return staff, ok
}

func CustomerFrom(c *gin.Context) (auth.CustomerPrincipal, bool) {
	p, _ := PrincipalFrom(c)
	customer, ok := p.(auth.CustomerPrincipal)
	return customer, ok
}

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"message": "You don't have permission to access this resource",
	})
}

func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := StaffFrom(c); !ok {
			forbid(c)
			return
		}
		c.Next()
	}
}

func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		staff, ok := StaffFrom(c)
		if !ok || !staff.IsManager() {
			forbid(c)
			return
		}
		c.Next()
	}
}

func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CustomerFrom(c); !ok {
			forbid(c)
			return
		}
		c.Next()
	}
}
