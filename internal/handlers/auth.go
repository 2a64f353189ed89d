package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type RegisterRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"github_username"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email" binding:"omitempty,email"`
	Bio             string `json:"bio"`
	GithubUsername  string `json:"github_username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=8"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

type AuthHandler struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewAuthHandler(logger *zap.SugaredLogger, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		db:     db,
	}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind register request", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	role := types.Role(req.Role)
	if req.Role == "" {
		role = types.RoleParticipant
	}

	if !role.Valid() {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.APIError{
			Code:    "INVALID_ROLE",
			Message: "role must be organizer, jury or participant",
		})
		return
	}

	var existingUser models.User

	err := h.db.Where("email = ?", req.Email).First(&existingUser).Error

	if err == nil {
		apierr.WriteJSON(ctx, http.StatusConflict, apierr.APIError{
			Code:    "EMAIL_TAKEN",
			Message: "email already registered",
		})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Errorw("database error when checking existing user", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		h.logger.Errorw("failed to hash password", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	newUser := models.User{
		Email:          req.Email,
		PasswordHash:   string(passwordHash),
		FullName:       req.FullName,
		Role:           role,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
	}

	if err := h.db.Create(&newUser).Error; err != nil {
		h.logger.Errorw("failed to create user", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	token, err := auth.GenerateJWT(newUser.ID, newUser.Email, newUser.Role)

	if err != nil {
		h.logger.Errorw("failed to generate JWT", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusCreated, gin.H{
		"user": userResponse(&newUser),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind login request", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User

	err := h.db.Where("email = ?", req.Email).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusBadRequest, invalidCredentials)
			return
		}
		h.logger.Errorw("database error when fetching user", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(req.Password))

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, invalidCredentials)
		return
	}

	token, err := auth.GenerateJWT(existingUser.ID, existingUser.Email, existingUser.Role)

	if err != nil {
		h.logger.Errorw("failed to generate JWT", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	setTokenCookie(ctx, token, 60*60*24*7)

	ctx.JSON(http.StatusOK, gin.H{
		"user": userResponse(&existingUser),
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	var user models.User
	if err := h.db.First(&user, currentUser.ID).Error; err != nil {
		h.logger.Errorw("failed to fetch user", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": userResponse(&user),
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	setTokenCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	var dbUser models.User
	if err := h.db.First(&dbUser, currentUser.ID).Error; err != nil {
		h.logger.Errorw("failed to fetch user", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind profile update", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	updates := make(map[string]interface{})

	if req.FullName != "" {
		updates["full_name"] = strings.TrimSpace(req.FullName)
	}

	if req.Bio != "" {
		updates["bio"] = req.Bio
	}

	if req.GithubUsername != "" {
		updates["github_username"] = strings.TrimSpace(req.GithubUsername)
	}

	if req.Email != "" {
		newEmail := strings.ToLower(strings.TrimSpace(req.Email))

		if newEmail != dbUser.Email {
			var existingUser models.User
			err := h.db.Where("email = ? AND id != ?", newEmail, dbUser.ID).First(&existingUser).Error
			if err == nil {
				apierr.WriteJSON(ctx, http.StatusConflict, apierr.APIError{
					Code:    "EMAIL_TAKEN",
					Message: "email already registered",
				})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				h.logger.Errorw("database error when checking existing email", "err", err)
				apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
				return
			}
		}

		updates["email"] = newEmail
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.APIError{
				Code:    "CURRENT_PASSWORD_REQUIRED",
				Message: "current password is required to change password",
			})
			return
		}

		err = bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(req.CurrentPassword))
		if err != nil {
			apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.APIError{
				Code:    "WRONG_PASSWORD",
				Message: "current password is incorrect",
			})
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Errorw("failed to hash new password", "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
			return
		}

		updates["password_hash"] = string(passwordHash)
	}

	if len(updates) == 0 {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.APIError{
			Code:    "NO_UPDATES",
			Message: "no valid fields to update",
		})
		return
	}

	if err := h.db.Model(&dbUser).Updates(updates).Error; err != nil {
		h.logger.Errorw("failed to update user", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	if err := h.db.First(&dbUser, dbUser.ID).Error; err != nil {
		h.logger.Errorw("failed to refresh user data", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": userResponse(&dbUser),
	})
}

var invalidCredentials = apierr.APIError{
	Code:    "INVALID_CREDENTIALS",
	Message: "invalid email or password",
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		Role:           user.Role,
		Bio:            user.Bio,
		GithubUsername: user.GithubUsername,
	}
}

func setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
