// Package handler exposes the interview core over a JSON HTTP API. It
// owns session-identity plumbing (cookies) and wire serialization; all
// interview semantics live in the core packages.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rsharan/interviewer/internal/bank"
	"github.com/rsharan/interviewer/internal/i18n"
	"github.com/rsharan/interviewer/internal/interview"
	"github.com/rsharan/interviewer/internal/model"
	"github.com/rsharan/interviewer/internal/speech"
)

const sessionCookie = "interview_session"

// maxQuestions caps the client-requested session length. Selection
// repeat-fills up to the requested count, so an unbounded value would
// allocate accordingly.
const maxQuestions = 50

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	bank    *bank.Bank
	manager *interview.Manager
	speech  *speech.Client // nil when voice support is not configured
	config  model.WebConfig
}

// New creates a new Handler.
func New(b *bank.Bank, m *interview.Manager, sp *speech.Client, cfg model.WebConfig) *Handler {
	return &Handler{bank: b, manager: m, speech: sp, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/reset", h.handleReset)
	r.Post("/api/start", h.handleStart)
	r.Get("/api/question", h.handleQuestion)
	r.Post("/api/answer", h.handleAnswer)
	r.Get("/api/report", h.handleReport)
	r.Post("/api/speech/transcribe", h.handleTranscribe)
	r.Post("/api/speech/synthesize", h.handleSynthesize)
}

type questionPayload struct {
	ID    int              `json:"id"`
	Text  string           `json:"text"`
	Level model.Difficulty `json:"level"`
}

func questionJSON(q model.Question, index int) questionPayload {
	return questionPayload{ID: index, Text: q.Text, Level: q.Level}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":          i18n.T(r.Context(), "AppTitle"),
		"categories":   h.bank.Categories(),
		"difficulties": []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard},
		"voice":        h.speech != nil,
	})
}

type startRequest struct {
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	IOMode       string `json:"io_mode"`
	NumQuestions int    `json:"num_questions"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category not specified")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = string(model.DifficultyEasy)
	}
	mode := model.IOModeText
	if strings.EqualFold(req.IOMode, string(model.IOModeVoice)) {
		mode = model.IOModeVoice
	}
	count := req.NumQuestions
	if count <= 0 {
		count = h.config.DefaultQuestions
	}
	if count > maxQuestions {
		count = maxQuestions
	}

	sess, first, err := h.manager.Start(req.Category, model.Difficulty(strings.ToLower(req.Difficulty)), mode, count)
	if err != nil {
		if errors.Is(err, bank.ErrUnknownCategory) || errors.Is(err, bank.ErrEmptySelection) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"question": questionJSON(first, 0),
		"io_mode":  mode,
	})
}

// sessionID extracts the session identifier from the request cookie.
func (h *Handler) sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (h *Handler) handleQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "interview not started")
		return
	}

	q, idx, finished, err := h.manager.CurrentQuestion(id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if finished {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "finished": true})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"question": questionJSON(q, idx),
	})
}

type answerRequest struct {
	AnswerText string `json:"answer_text"`
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "interview not started")
		return
	}

	// An empty answer is legal: it scores zero rather than erroring.
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.manager.SubmitAnswer(id, req.AnswerText)
	if err != nil {
		if errors.Is(err, interview.ErrNoActiveQuestion) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success":  false,
				"finished": true,
				"error":    "no more questions",
			})
			return
		}
		h.writeSessionError(w, err)
		return
	}

	resp := map[string]any{
		"success":    true,
		"evaluation": res.Evaluation,
		"finished":   res.Finished,
	}
	if res.Finished {
		resp["report"] = res.Report
	} else {
		resp["next_question"] = questionJSON(*res.Next, res.NextIndex)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "interview not started")
		return
	}

	report, err := h.manager.Report(id)
	if err != nil {
		if errors.Is(err, interview.ErrNotCompleted) {
			writeError(w, http.StatusBadRequest, "report not available")
			return
		}
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "report": report})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.sessionID(r); ok {
		h.manager.Reset(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.SecureCookies,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if h.speech == nil {
		writeError(w, http.StatusServiceUnavailable, i18n.T(r.Context(), "SpeechUnavailable"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	text, err := h.speech.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		slog.Error("transcription failed", "error", err)
		writeError(w, http.StatusBadGateway, "transcription failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "text": text})
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if h.speech == nil {
		writeError(w, http.StatusServiceUnavailable, i18n.T(r.Context(), "SpeechUnavailable"))
		return
	}

	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := h.speech.Synthesize(r.Context(), req.Text)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err)
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	if _, err := io.Copy(w, audio); err != nil {
		slog.Error("stream audio", "error", err)
	}
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, interview.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
