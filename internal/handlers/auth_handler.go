package handlers

import (
	"net/http"
	"time"

	"logistics/internal/auth"
	"logistics/internal/models"
	"logistics/internal/redis"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		h.logger.Warn().Str("username", req.Username).Msg("login rejected")
		h.writeError(c, err)
		return
	}

	token, claims, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Username, string(user.Role), h.sessionTTL)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.sessions != nil {
		session := &redis.SessionData{
			UserID:    user.ID,
			Username:  user.Username,
			Role:      string(user.Role),
			CreatedAt: time.Now(),
		}
		if err := h.sessions.SetSession(claims.SessionID(), session, h.sessionTTL); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.logger.Info().Str("username", user.Username).Msg("user signed in")
	respond(c, http.StatusOK, "Welcome, "+user.Username, loginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	})
}

// Logout revokes the session and drops the undo history, which only makes
// sense within the session that produced it.
func (h *APIHandler) Logout(c *gin.Context) {
	claims, _ := currentClaims(c)
	if h.sessions != nil {
		if err := h.sessions.DeleteSession(claims.SessionID()); err != nil {
			h.writeError(c, err)
			return
		}
	}
	h.undoService.Clear()
	respond(c, http.StatusOK, "Signed out", nil)
}

func (h *APIHandler) Me(c *gin.Context) {
	claims, _ := currentClaims(c)
	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", user)
}

type createUserRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
}

func (h *APIHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "", users)
}

func (h *APIHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		h.writeError(c, err)
		return
	}
	user, err := h.userService.CreateUser(req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created", user)
}

func (h *APIHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.userService.DeleteUser(id); err != nil {
		h.writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "User deleted", nil)
}
