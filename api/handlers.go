package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	accountx "github.com/tanpawarit/facebank-assistant/agent/account"
	archivex "github.com/tanpawarit/facebank-assistant/agent/archive"
	assistantx "github.com/tanpawarit/facebank-assistant/agent/agents/assistant"
	sessionx "github.com/tanpawarit/facebank-assistant/agent/session"
)

const (
	imageField = "image"
	audioField = "audio"

	exportIDHeader = "X-Export-Id"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type ChatResponse struct {
	Reply   string          `json:"reply"`
	Balance decimal.Decimal `json:"balance"`
}

type LoginResponse struct {
	Authenticated bool   `json:"authenticated"`
	Greeting      string `json:"greeting,omitempty"`
}

type TranscribeResponse struct {
	Text    string           `json:"text"`
	Reply   string           `json:"reply,omitempty"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

type AccountResponse struct {
	User    *accountx.UserAccount `json:"user"`
	FDPlans accountx.Catalog      `json:"fd_plans"`
}

type MessagesResponse struct {
	Messages []sessionx.Entry `json:"messages"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	image, err := s.readUpload(w, r, imageField)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read login image")
		writeJSON(w, r, http.StatusBadRequest, Error("failed to read image"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.app.Session
	before := sess.Log.Len()
	if err := sess.Login(image); err != nil {
		if errors.Is(err, sessionx.ErrNoImage) {
			writeJSON(w, r, http.StatusBadRequest, Error(err.Error()))
			return
		}
		logger.Error().Err(err).Msg("login failed")
		writeJSON(w, r, http.StatusInternalServerError, Error("internal error"))
		return
	}
	logger.Info().Str("user", sess.Account.Name).Msg("face verified")

	resp := LoginResponse{Authenticated: true}
	if entries := sess.Log.All(); len(entries) > before {
		resp.Greeting = entries[len(entries)-1].Content
	}
	writeJSON(w, r, http.StatusOK, OK(resp))
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	var req ChatRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		logger.Warn().Err(err).Msg("failed to decode chat request")
		writeJSON(w, r, http.StatusBadRequest, Error("failed to decode request"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, r, http.StatusBadRequest, ValidationError(verrs))
			return
		}
		writeJSON(w, r, http.StatusBadRequest, Error("invalid request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply, status, err := s.chat(r, req.Message)
	if err != nil {
		writeJSON(w, r, status, Error(err.Error()))
		return
	}
	writeJSON(w, r, http.StatusOK, OK(ChatResponse{
		Reply:   reply,
		Balance: s.app.Session.Account.Balance,
	}))
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	audio, err := s.readUpload(w, r, audioField)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read audio clip")
		writeJSON(w, r, http.StatusBadRequest, Error("failed to read audio"))
		return
	}
	send, _ := strconv.ParseBool(r.URL.Query().Get("send"))

	text := strings.TrimSpace(s.app.Transcriber.Transcribe(r.Context(), audio, uploadName(r, audioField)))
	resp := TranscribeResponse{Text: text}
	if !send || text == "" {
		writeJSON(w, r, http.StatusOK, OK(resp))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply, status, err := s.chat(r, text)
	if err != nil {
		writeJSON(w, r, status, Error(err.Error()))
		return
	}
	resp.Reply = reply
	balance := s.app.Session.Account.Balance
	resp.Balance = &balance
	writeJSON(w, r, http.StatusOK, OK(resp))
}

// chat runs one message through the assistant. Callers hold s.mu.
func (s *Server) chat(r *http.Request, text string) (string, int, error) {
	reply, err := s.app.Assistant.HandleMessage(r.Context(), s.app.Session, text)
	switch {
	case err == nil:
		return reply, http.StatusOK, nil
	case errors.Is(err, assistantx.ErrNotAuthenticated):
		return "", http.StatusUnauthorized, err
	case errors.Is(err, assistantx.ErrInvalidMessage):
		return "", http.StatusBadRequest, err
	default:
		requestLogger(r).Error().Err(err).Msg("failed to handle message")
		return "", http.StatusInternalServerError, errors.New("internal error")
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.app.Session.Reset()
	requestLogger(r).Info().Msg("conversation reset")
	writeJSON(w, r, http.StatusOK, OK(MessagesResponse{Messages: s.app.Session.Log.All()}))
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, r, http.StatusOK, OK(AccountResponse{
		User:    s.app.Session.Account.Clone(),
		FDPlans: s.app.Catalog,
	}))
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, r, http.StatusOK, OK(MessagesResponse{Messages: s.app.Session.Log.All()}))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r)

	s.mu.Lock()
	doc, err := s.app.Session.Export()
	s.mu.Unlock()
	if err != nil {
		logger.Error().Err(err).Msg("failed to export session")
		writeJSON(w, r, http.StatusInternalServerError, Error("internal error"))
		return
	}

	id := uuid.NewString()
	if err := s.app.Archive.Put(r.Context(), id, doc); err != nil {
		logger.Warn().Err(err).Str("export_id", id).Msg("failed to archive export")
	} else {
		w.Header().Set(exportIDHeader, id)
	}
	writeDocument(w, doc)
}

func (s *Server) handleArchivedExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSON(w, r, http.StatusBadRequest, Error("invalid export id"))
		return
	}

	doc, err := s.app.Archive.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, archivex.ErrExportNotFound) {
			writeJSON(w, r, http.StatusNotFound, Error("export not found"))
			return
		}
		requestLogger(r).Error().Err(err).Str("export_id", id).Msg("failed to read archived export")
		writeJSON(w, r, http.StatusInternalServerError, Error("internal error"))
		return
	}
	w.Header().Set(exportIDHeader, id)
	writeDocument(w, doc)
}

func writeDocument(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": sessionx.ExportFileName,
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// readUpload returns the named multipart file, or the raw body for any other
// content type.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.app.Config.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s field: %w", field, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

func uploadName(r *http.Request, field string) string {
	if r.MultipartForm == nil {
		return ""
	}
	if files := r.MultipartForm.File[field]; len(files) > 0 {
		return files[0].Filename
	}
	return ""
}
