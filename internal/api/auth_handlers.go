package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careminder/internal/auth"
	"careminder/internal/model"
)

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        int    `json:"role"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  publicUser `json:"user"`
}

type publicUser struct {
	UUID        string `json:"user_uuid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        int    `json:"role"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required.")
		return
	}
	if req.Role == 0 {
		req.Role = model.RoleUser
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	if _, err := a.users.FindByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "User with this email already exists.")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("register lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}

	user := model.User{
		UUID:         uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := a.users.Create(r.Context(), &user); err != nil {
		log.Printf("create user: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}

	token, err := a.jwt.GenerateToken(user.UUID, user.Role)
	if err != nil {
		log.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}
	writeData(w, http.StatusCreated, "Registration successful.", authResponse{
		Token: token,
		User:  publicUser{UUID: user.UUID, Username: user.Username, DisplayName: user.DisplayName, Role: user.Role},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := a.jwt.GenerateToken(user.UUID, user.Role)
	if err != nil {
		log.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}
	writeData(w, http.StatusOK, "Login successful.", authResponse{
		Token: token,
		User:  publicUser{UUID: user.UUID, Username: user.Username, DisplayName: user.DisplayName, Role: user.Role},
	})
}

type fcmTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}

// handleUpdateFCMToken stores the caller's device token. An empty token is
// allowed and opts the user out of push reminders.
func (a *API) handleUpdateFCMToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}
	var req fcmTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := a.users.UpdateFCMToken(r.Context(), claims.UserUUID, req.FCMToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		log.Printf("update fcm token: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error.")
		return
	}
	writeData(w, http.StatusOK, "FCM token updated.", nil)
}
