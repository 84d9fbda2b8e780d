package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hard75/internal/models"
	"hard75/internal/progress"
	"hard75/internal/store"
	syncer "hard75/internal/sync"
)

type AuthHandler struct {
	users     store.UserStore
	clock     *progress.Clock
	sync      syncer.Syncer
	jwtSecret []byte
	log       *zap.Logger
}

func NewAuthHandler(users store.UserStore, clock *progress.Clock, sync syncer.Syncer, jwtSecret []byte, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, clock: clock, sync: sync, jwtSecret: jwtSecret, log: log}
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Height    int    `json:"height"`
	Password  string `json:"password"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	existing, err := h.users.ByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "could not hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Address:      req.Address,
		City:         req.City,
		Height:       req.Height,
	}
	if err := h.users.Insert(r.Context(), &user); err != nil {
		http.Error(w, "could not create user", http.StatusBadRequest)
		return
	}

	// A fresh registration starts at day 1, today.
	if err := h.clock.Reset(r.Context(), user.ID); err != nil {
		http.Error(w, "could not initialize progress", http.StatusInternalServerError)
		return
	}

	// Best-effort: publish the profile so the account is visible on other
	// devices and in the ranking right away.
	go func(id int) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.sync.PushAll(ctx, id); err != nil && !errors.Is(err, syncer.ErrOffline) {
			h.log.Warn("signup push failed", zap.Int("user_id", id), zap.Error(err))
		}
	}(user.ID)

	token, err := h.issueJWT(user.ID)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	if c.Email == "" || c.Password == "" {
		http.Error(w, "email and password required", http.StatusBadRequest)
		return
	}

	user, err := h.users.ByEmail(r.Context(), c.Email)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	// Pull remote history in the background; an in-flight sync outliving
	// this request is fine, the next progress read sees the reconciled day.
	go func(id int) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := h.sync.PullAll(ctx, id); err != nil && !errors.Is(err, syncer.ErrOffline) {
			h.log.Warn("login pull failed", zap.Int("user_id", id), zap.Error(err))
		}
	}(user.ID)

	token, err := h.issueJWT(user.ID)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"token": token, "user": user})
}

func (h *AuthHandler) issueJWT(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}
