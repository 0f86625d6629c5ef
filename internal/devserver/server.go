// Package devserver implements an in-memory stand-in for the inventory API.
// It serves the same endpoints and response shapes as the real backend so
// the client SDK can be exercised end to end without one. It is a
// development fixture, not production code: state lives in memory and is
// lost on restart.
package devserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSigningKey signs dev tokens when no key is configured.
const DefaultSigningKey = "medinv-dev-signing-key"

// Config holds configuration for the dev server.
type Config struct {
	// SigningKey signs access tokens. Defaults to DefaultSigningKey.
	SigningKey string

	// SeedDemoData preloads a demo account and a handful of equipment
	// records.
	SeedDemoData bool

	// Logger for request and lifecycle logging.
	Logger zerolog.Logger
}

// Server is the dev API server. It implements http.Handler.
type Server struct {
	store  *Store
	tokens *TokenIssuer
	logger zerolog.Logger
	router *chi.Mux
}

// New creates a dev server with all routes configured.
func New(cfg Config) *Server {
	key := cfg.SigningKey
	if key == "" {
		key = DefaultSigningKey
	}

	s := &Server{
		store:  NewStore(),
		tokens: NewTokenIssuer(key),
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(cfg.Logger))

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/verify", s.handleVerify)
		r.Get("/users/me", s.handleMe)
		r.Put("/users/{id}", s.handleUpdateUser)
		r.Delete("/users/{id}", s.handleDeleteUser)

		r.Route("/equipamentos", func(r chi.Router) {
			r.Get("/", s.handleListEquipment)
			r.Post("/", s.handleCreateEquipment)
			r.Get("/{id}", s.handleGetEquipment)
			r.Put("/{id}", s.handleUpdateEquipment)
			r.Patch("/{id}/status", s.handleUpdateEquipmentStatus)
			r.Delete("/{id}", s.handleDeleteEquipment)
		})
	})

	s.router = r

	if cfg.SeedDemoData {
		s.seed()
	}
	return s
}

// ServeHTTP dispatches to the configured router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store exposes the backing store to tests.
func (s *Server) Store() *Store {
	return s.store
}

// seed preloads a demo account and equipment records.
func (s *Server) seed() {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("seeding demo user failed")
		return
	}

	admin := &Account{
		Nome:         "Administrador",
		Username:     "admin",
		Email:        "admin@medinv.local",
		Tipo:         "Administrador",
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(admin); err != nil {
		s.logger.Error().Err(err).Msg("seeding demo user failed")
		return
	}

	seedRecords := []struct {
		nome, tipo, fabricante, modelo string
		status                         string
	}{
		{"Monitor Multiparâmetro", "Monitor", "Philips", "IntelliVue MX450", "DISPONIVEL"},
		{"Ventilador Pulmonar", "Ventilador", "Dräger", "Evita V300", "EM_USO"},
		{"Bomba de Infusão", "Bomba", "B. Braun", "Infusomat Space", "EM_MANUTENCAO"},
		{"Desfibrilador", "Desfibrilador", "Zoll", "R Series", "DISPONIVEL"},
	}
	for _, rec := range seedRecords {
		s.store.CreateEquipment(equipmentFromSeed(rec.nome, rec.tipo, rec.fabricante, rec.modelo, rec.status, admin.ID))
	}

	s.logger.Info().
		Str("username", admin.Username).
		Int("equipment", len(seedRecords)).
		Msg("demo data seeded")
}
