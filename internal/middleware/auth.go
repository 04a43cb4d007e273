package middleware

import (
	"net/http"
	"os"
	"strings"

	"accesshub/internal/model"
	"accesshub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 24h, refresh_token: 7 days
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// Authenticate validates the JWT (cookie first, then Authorization header)
// and attaches the resulting Principal to the context. Role-gating happens in
// the services against the capability table; this middleware only establishes
// identity.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		principal, ok := principalFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// principalFromClaims rebuilds the Principal from token claims. A role
// outside the closed set means a token minted by something other than this
// service; reject it.
func principalFromClaims(claims jwt.MapClaims) (model.Principal, bool) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return model.Principal{}, false
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return model.Principal{}, false
	}

	username, ok := claims["username"].(string)
	if !ok {
		return model.Principal{}, false
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return model.Principal{}, false
	}
	role, ok := model.ParseRole(roleStr)
	if !ok {
		return model.Principal{}, false
	}

	return model.Principal{ID: id, Username: username, Role: role}, true
}

// GetPrincipal extracts the authenticated Principal set by Authenticate.
func GetPrincipal(c *gin.Context) (model.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := v.(model.Principal)
	return principal, ok
}
