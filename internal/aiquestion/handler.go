package aiquestion

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/saulo-duarte/interviewace-api/internal/config"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	config.JSON(w, http.StatusOK, map[string]string{"message": "AI endpoint"})
}

// GenerateQuestions never lets an internal error or panic reach the client:
// anything unclassified becomes a 500 with the generic message.
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("AI generation panic: %v", rec)
			config.Error(w, http.StatusInternalServerError, MsgGenerationFailed)
		}
	}()

	var profile CandidateProfile
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil && !errors.Is(err, io.EOF) {
		log.WithError(err).Warn("invalid AI request body")
		config.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome := h.service.Generate(r.Context(), profile)
	if outcome.Message != "" {
		config.Error(w, outcome.Status, outcome.Message)
		return
	}
	config.JSON(w, outcome.Status, QuestionResponse{Questions: outcome.Questions})
}
