package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
)

type AuthenticatedUser struct {
	ID       uint       `json:"id"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Role     types.Role `json:"role"`
}

// AuthMiddleware resolves the session identity from the Authorization header
// or the token cookie and loads the user fresh from the database, so role and
// ownership checks downstream never trust stale claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !resolveUser(ctx) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, apierr.ErrResponse{Error: apierr.Unauthorized})
			return
		}

		ctx.Next()
	}
}

// OptionalAuth resolves the identity when a valid token is present but lets
// anonymous requests through. Used on public routes whose response is richer
// for logged-in users.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resolveUser(ctx)
		ctx.Next()
	}
}

func resolveUser(ctx *gin.Context) bool {
	tokenString := tokenFromRequest(ctx)

	if tokenString == "" {
		return false
	}

	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return false
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return false
	}

	userID := uint(userIDFloat)

	var user models.User

	if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return false
	}

	ctx.Set(types.ContextUserKey, AuthenticatedUser{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	})

	return true
}

// RequireRole gates a route group on the account role. It must run after
// AuthMiddleware. Ownership checks stay in the handlers, re-derived from the
// store per request.
func RequireRole(role types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, apierr.ErrResponse{Error: apierr.Unauthorized})
			return
		}

		authenticatedUser, ok := user.(AuthenticatedUser)

		if !ok || authenticatedUser.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, apierr.ErrResponse{Error: apierr.APIError{
				Code:    "FORBIDDEN",
				Message: "this action requires the " + string(role) + " role",
			}})
			return
		}

		ctx.Next()
	}
}

func tokenFromRequest(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := ctx.Cookie("token")
	if err != nil {
		return ""
	}

	return cookie
}
