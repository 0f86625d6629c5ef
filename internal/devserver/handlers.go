package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/medinventory/medinv/internal/equipment"
)

const defaultPageLimit = 10

type registerRequest struct {
	Nome     string `json:"nome"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Tipo     string `json:"tipo"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not process password")
		return
	}

	account := &Account{
		Nome:         req.Nome,
		Username:     req.Username,
		Email:        req.Email,
		Tipo:         req.Tipo,
		PasswordHash: hash,
	}
	if account.Tipo == "" {
		account.Tipo = "UsuarioComum"
	}

	if err := s.store.CreateUser(account); err != nil {
		if errors.Is(err, ErrUserExists) {
			writeError(w, http.StatusConflict, "username or email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": account.view()})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.store.FindUserByIdentifier(req.Username)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.tokens.Generate(account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         account.view(),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	account, err := s.store.FindUser(authedUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	writeJSON(w, http.StatusOK, account.view())
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != authedUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot modify another user")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := Account{
		Nome:     req.Nome,
		Username: req.Username,
		Email:    req.Email,
		Tipo:     req.Tipo,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not process password")
			return
		}
		updates.PasswordHash = hash
	}

	account, err := s.store.UpdateUser(id, updates)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": account.view()})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != authedUserID(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot delete another user")
		return
	}

	if err := s.store.DeleteUser(id); err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEquipment(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := parsePositiveInt(query.Get("page"), 1)
	limit := parsePositiveInt(query.Get("limit"), defaultPageLimit)
	nome := query.Get("nome")
	status := equipment.Status(query.Get("statusOperacional"))

	items, total := s.store.ListEquipment(nome, status, page, limit)

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]int{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": totalPages,
		},
	})
}

func (s *Server) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	var eq equipment.Equipment
	if err := json.NewDecoder(r.Body).Decode(&eq); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if eq.Nome == "" {
		writeError(w, http.StatusBadRequest, "nome is required")
		return
	}

	created := s.store.CreateEquipment(eq)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetEquipment(w http.ResponseWriter, r *http.Request) {
	eq, err := s.store.GetEquipment(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "equipment not found")
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

func (s *Server) handleUpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var eq equipment.Equipment
	if err := json.NewDecoder(r.Body).Decode(&eq); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.store.UpdateEquipment(chi.URLParam(r, "id"), eq)
	if err != nil {
		writeError(w, http.StatusNotFound, "equipment not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateEquipmentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StatusOperacional equipment.Status `json:"statusOperacional"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StatusOperacional == "" {
		writeError(w, http.StatusBadRequest, "statusOperacional is required")
		return
	}

	updated, err := s.store.UpdateEquipmentStatus(chi.URLParam(r, "id"), req.StatusOperacional)
	if err != nil {
		writeError(w, http.StatusNotFound, "equipment not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEquipment(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "equipment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func equipmentFromSeed(nome, tipo, fabricante, modelo, status, userID string) equipment.Equipment {
	return equipment.Equipment{
		Nome:              nome,
		Tipo:              tipo,
		Fabricante:        fabricante,
		Modelo:            modelo,
		StatusOperacional: equipment.Status(status),
		UserID:            userID,
	}
}
