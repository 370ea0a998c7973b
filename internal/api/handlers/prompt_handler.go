package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/promptlover/promptlover-be/internal/assets"
	"github.com/promptlover/promptlover-be/internal/auth"
	"github.com/promptlover/promptlover-be/internal/models"
	"github.com/promptlover/promptlover-be/internal/services"
	ws "github.com/promptlover/promptlover-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps the multipart form held in memory during create.
const maxUploadBytes = 32 << 20

// PromptHandler handles HTTP requests for prompt listings.
type PromptHandler struct {
	service  services.PromptServiceProvider
	uploader assets.Uploader
	hub      *ws.Hub // nil disables live feed broadcasts
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(service services.PromptServiceProvider, uploader assets.Uploader, hub *ws.Hub) *PromptHandler {
	return &PromptHandler{service: service, uploader: uploader, hub: hub}
}

// GetAll handles the feed listing, optionally filtered by creator.
func (h *PromptHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	creatorID := r.URL.Query().Get("creatorId")

	prompts, err := h.service.GetAllPrompts(creatorID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve prompts")
		respondError(w, fmt.Errorf("failed to retrieve prompts"))
		return
	}

	respondData(w, http.StatusOK, prompts)
}

// Get handles retrieving a single prompt. Sits behind the session middleware.
func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prompt, err := h.service.GetPromptByID(id)
	if err != nil {
		log.Warn().Err(err).Str("prompt_id", id).Msg("Failed to get prompt by ID")
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, prompt)
}

// Create handles the multipart create request: image file plus text fields.
// Sits behind the session middleware; creator comes from the session.
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: you must be logged in to create a prompt", services.ErrUnauthorized))
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, fmt.Errorf("%w: invalid multipart form", services.ErrValidation))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, fmt.Errorf("%w: no image file provided", services.ErrValidation))
		return
	}
	defer file.Close()

	// The browser form posts repeated category values as "category[]".
	category := r.MultipartForm.Value["category"]
	if len(category) == 0 {
		category = r.MultipartForm.Value["category[]"]
	}

	input := services.CreatePromptInput{
		PromptText: r.FormValue("promptText"),
		AITool:     r.FormValue("aiTool"),
		Category:   category,
		Creator:    claims.UserID,
	}

	// Validate the text fields before paying for the upload.
	if input.PromptText == "" || input.AITool == "" || len(input.Category) == 0 {
		respondError(w, fmt.Errorf("%w: missing required fields (including 1-3 categories)", services.ErrValidation))
		return
	}

	imageURL, err := h.uploader.Upload(r.Context(), file, header.Filename)
	if err != nil {
		log.Error().Err(err).Msg("Image upload failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "image upload failed"})
		return
	}
	input.ImageURL = imageURL

	prompt, err := h.service.CreatePrompt(input)
	if err != nil {
		log.Error().Err(err).Str("creator", claims.UserID).Msg("Failed to create prompt")
		respondError(w, err)
		return
	}

	h.broadcast("prompt.created", prompt)
	respondData(w, http.StatusCreated, prompt)
}

// counterPayload is the counters-only update body. Pointers distinguish
// absent fields from zero values.
type counterPayload struct {
	Likes    *int     `json:"likes"`
	Views    *int     `json:"views"`
	LikedBy  []string `json:"likedBy"`
	ViewedBy []string `json:"viewedBy"`
}

// Update applies the counters-only update path. Deliberately unauthenticated:
// any client may write the likes/views counters by id, and content fields in
// the body are ignored.
func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload counterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, fmt.Errorf("%w: invalid request body", services.ErrValidation))
		return
	}

	prompt, err := h.service.UpdateCounters(id, services.CounterUpdate{
		Likes:    payload.Likes,
		Views:    payload.Views,
		LikedBy:  payload.LikedBy,
		ViewedBy: payload.ViewedBy,
	})
	if err != nil {
		log.Warn().Err(err).Str("prompt_id", id).Msg("Failed to update counters")
		respondError(w, err)
		return
	}

	h.broadcast("prompt.updated", prompt)
	respondData(w, http.StatusOK, prompt)
}

// Delete removes a prompt. Sits behind the session middleware; only the
// creator may delete.
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, fmt.Errorf("%w: you must be logged in to delete a prompt", services.ErrUnauthorized))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeletePrompt(id, claims.UserID); err != nil {
		log.Warn().Err(err).Str("prompt_id", id).Str("user_id", claims.UserID).Msg("Failed to delete prompt")
		respondError(w, err)
		return
	}

	h.broadcast("prompt.deleted", models.Prompt{ID: id})
	respondData(w, http.StatusOK, map[string]string{})
}

// broadcast pushes a prompt event to connected feed clients, plus anyone
// watching that specific prompt.
func (h *PromptHandler) broadcast(action string, prompt models.Prompt) {
	if h.hub == nil {
		return
	}
	msg, err := json.Marshal(ws.Message{Action: action, Payload: prompt})
	if err != nil {
		return
	}
	h.hub.Broadcast <- msg
	h.hub.BroadcastTo(prompt.ID, msg)
}
