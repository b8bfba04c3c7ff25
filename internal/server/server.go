package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"topic-studio-backend/internal/config"
	"topic-studio-backend/internal/db"
	"topic-studio-backend/internal/generator"
	"topic-studio-backend/internal/ideation"
	"topic-studio-backend/internal/store"
	"topic-studio-backend/internal/types"
	"topic-studio-backend/internal/workflow"
)

type Server struct {
	router *chi.Mux
	cfg    config.Config
	flow   *workflow.Workflow
	// gen backs the local generation endpoint; nil when no API key is set.
	gen *generator.TopicGenerator
	// selections logs handoffs to Postgres; nil when DB_URL is unset.
	selections *store.SelectionStore
}

func NewServer(cfg config.Config) (*Server, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true, // Enable credentials for cookies
		MaxAge:           300,
	}))

	state := store.NewFileStateStore(cfg.DataDir)
	sessions := store.NewSessionStore()
	source := ideation.NewClient(cfg.Port)
	flow := workflow.New(source, state, sessions, cfg.DefaultBrand, cfg.EditorPath)

	var gen *generator.TopicGenerator
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(cfg.OpenAIAPIKey)
		g, err := generator.Load(cfg.PromptSpecPath, client, cfg.Model)
		if err != nil {
			log.Println("error loading topic prompt spec", err)
			return nil, fmt.Errorf("failed to load topic prompt spec: %w", err)
		}
		gen = g
	}

	// Initialize the selection log if DB_URL is provided
	var selections *store.SelectionStore
	if cfg.DatabaseURL != "" {
		database, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("database connection established")

		if err := database.RunMigrations(cfg.MigrationsDir); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		selections = store.NewSelectionStore(database)
	} else {
		log.Println("warning: DB_URL not provided, selections are kept in local files only")
	}

	s := &Server{
		router:     r,
		cfg:        cfg,
		flow:       flow,
		gen:        gen,
		selections: selections,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	// Workflow surface consumed by the studio UI
	s.router.Post("/api/topics/generate", s.handleGenerate)
	s.router.Get("/api/topics/cached", s.handleCached)
	s.router.Post("/api/topics/clear", s.handleClear)
	s.router.Post("/api/topics/select", s.handleSelect)
	s.router.Get("/api/topics/selected", s.handleSelected)
	s.router.Get("/api/prompt", s.handlePrompt)
	s.router.Post("/api/prompt", s.handleSavePrompt)
	// Generation backend surface (the local-mode collaborator)
	s.router.Post("/generate-topics", s.handleGenerateTopics)
	s.router.Get("/generate-topics", s.handleGenerateTopicsGet)
	s.router.Post("/set-selected-topic", s.handleSetSelected)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}

func newSessionID() string {
	return "s_" + uuid.NewString()
}

// getSessionID retrieves the session ID from cookie or query parameter/header
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	if sid := r.URL.Query().Get("sessionId"); sid != "" {
		return sid
	}
	return ""
}

// getOrCreateSessionID gets the existing session ID or creates a new one,
// setting the cookie
func getOrCreateSessionID(r *http.Request, w http.ResponseWriter) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = newSessionID()
		SetSessionCookie(w, sid)
	}
	return sid
}
