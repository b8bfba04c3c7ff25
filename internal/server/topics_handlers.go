package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"topic-studio-backend/internal/ideation"
	"topic-studio-backend/internal/topics"
	"topic-studio-backend/internal/types"
)

// handleGenerate runs a full fetch: build the request, drive the upstream
// transport, render and cache the result for the session.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sid := getOrCreateSessionID(r, w)

	view, err := s.flow.Fetch(r.Context(), sid, req)
	if err != nil {
		// Transport and empty-result failures share the status channel but
		// keep their distinct messages. The session stays retryable.
		if errors.Is(err, ideation.ErrNoCandidates) {
			log.Printf("[topics] fetch for brand %q produced no candidates", req.Brand)
		} else {
			log.Printf("[topics] fetch failed: %v", err)
		}
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.Header().Set("X-Session-Id", sid)
	s.writeJSON(w, types.TopicsView{Topics: view.Topics, Brand: view.Brand, Seed: view.Seed, SavedAt: view.SavedAt})
}

// handleCached restores the cached topic set into the session view, unless
// the session already renders something.
func (s *Server) handleCached(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	view := s.flow.Restore(sid)
	w.Header().Set("X-Session-Id", sid)
	s.writeJSON(w, types.TopicsView{Topics: view.Topics, Brand: view.Brand, Seed: view.Seed, SavedAt: view.SavedAt})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sid := getOrCreateSessionID(r, w)
	s.flow.Clear(sid)
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleSelect performs the editor handoff for the posted candidate and
// returns the editor path to navigate to.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var cand types.TopicCandidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(cand.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "topic title is required")
		return
	}
	getOrCreateSessionID(r, w)
	editor := s.flow.Select(cand)
	s.writeJSON(w, types.SelectResponse{Editor: editor})
}

// handleSelected serves the handoff record to the editor page.
func (s *Server) handleSelected(w http.ResponseWriter, r *http.Request) {
	if cand, ok := s.flow.Selected(); ok {
		s.writeJSON(w, cand)
		return
	}
	if s.selections != nil {
		if sel, err := s.selections.LatestSelection(); err == nil && sel != nil {
			s.writeJSON(w, sel.Topic)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "no topic selected")
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	s.writeJSON(w, types.PromptPayload{Prompt: s.flow.Prompt(brand)})
}

func (s *Server) handleSavePrompt(w http.ResponseWriter, r *http.Request) {
	var body types.PromptPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.flow.SavePrompt(body.Prompt)
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// ---- Generation backend surface ----

func (s *Server) handleGenerateTopics(w http.ResponseWriter, r *http.Request) {
	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.generateTopics(w, r, req)
}

// handleGenerateTopicsGet accepts the same request with fields as query
// parameters, for clients falling back from POST.
func (s *Server) handleGenerateTopicsGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	req := types.GenerationRequest{
		Brand:  q.Get("brand"),
		Seed:   q.Get("seed"),
		Limit:  limit,
		Prompt: q.Get("prompt"),
	}
	s.generateTopics(w, r, req)
}

func (s *Server) generateTopics(w http.ResponseWriter, r *http.Request, req types.GenerationRequest) {
	if s.gen == nil {
		s.writeError(w, http.StatusServiceUnavailable, "generation backend not configured")
		return
	}
	if strings.TrimSpace(req.Brand) == "" {
		req.Brand = s.cfg.DefaultBrand
	}
	if req.Limit <= 0 || req.Limit > topics.DefaultLimit {
		req.Limit = topics.DefaultLimit
	}

	list, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		log.Println("topic generation error:", err)
		s.writeError(w, http.StatusBadGateway, "topic generation failed")
		return
	}
	s.writeJSON(w, types.GenerationResponse{Topics: list})
}

// handleSetSelected records the selection the studio is handing to the
// editor. The caller treats this as advisory, so failures only log.
func (s *Server) handleSetSelected(w http.ResponseWriter, r *http.Request) {
	var cand types.TopicCandidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(cand.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "topic title is required")
		return
	}
	sid := getOrCreateSessionID(r, w)
	if s.selections != nil {
		if err := s.selections.SaveSelection(sid, cand); err != nil {
			log.Printf("[selection] failed to log selection: %v", err)
		}
	}
	log.Printf("[selection] %q selected for editing", topics.DisplayTitle(cand))
	s.writeJSON(w, map[string]string{"status": "ok"})
}
