package clock

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/runwayclock/runwayclock/internal/rest"
	"github.com/runwayclock/runwayclock/pkg/user"
	log "github.com/sirupsen/logrus"
)

type ClockDTO struct {
	Id            string  `json:"id"`
	Name          string  `json:"name"`
	City          string  `json:"city,omitempty"`
	RunwayEndDate *string `json:"runwayEndDate"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type SaveClockRequestDTO struct {
	Name          string  `json:"name"`
	City          string  `json:"city,omitempty"`
	RunwayEndDate *string `json:"runwayEndDate,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SaveClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Saving clock")

	var request SaveClockRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	var runwayEndDate *time.Time
	if request.RunwayEndDate != nil {
		parsed, err := time.Parse(time.RFC3339, *request.RunwayEndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid runwayEndDate format", "Runway end date must be in RFC3339 format")
			return
		}
		runwayEndDate = &parsed
	}

	stored, err := h.service.Save(r.Context(), Clock{
		Name:          request.Name,
		City:          request.City,
		RunwayEndDate: runwayEndDate,
	})
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		if errors.Is(err, ErrNameRequired) {
			writeError(w, http.StatusBadRequest, "Invalid clock", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	response := struct {
		Id string `json:"id"`
	}{Id: stored.Id}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	clockId := mux.Vars(r)["clockId"]

	c, err := h.service.GetById(r.Context(), clockId)
	if err != nil {
		respondClockError(w, err)
		return
	}
	writeClock(w, c)
}

// GetPublicClock serves the embeddable read-only view. No identity required;
// rendering flags (transparent, compact) are a presentation concern and any
// query parameters are ignored here.
func (h *Handler) GetPublicClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	clockId := mux.Vars(r)["clockId"]

	c, err := h.service.GetPublicById(r.Context(), clockId)
	if err != nil {
		respondClockError(w, err)
		return
	}
	writeClock(w, c)
}

func (h *Handler) GetOwnClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	c, err := h.service.GetForOwner(r.Context())
	if err != nil {
		respondClockError(w, err)
		return
	}
	writeClock(w, c)
}

func (h *Handler) ListClocks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	clocks, err := h.service.ListForOwner(r.Context())
	if err != nil {
		respondClockError(w, err)
		return
	}

	dtos := make([]ClockDTO, 0, len(clocks))
	for _, c := range clocks {
		dtos = append(dtos, ClockToDTO(c))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) ResetClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	clockId := mux.Vars(r)["clockId"]

	if err := h.service.Reset(r.Context(), clockId); err != nil {
		respondClockError(w, err)
		return
	}

	response := struct {
		Success bool `json:"success"`
	}{Success: true}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteClock(w http.ResponseWriter, r *http.Request) {
	clockId := mux.Vars(r)["clockId"]

	if err := h.service.Delete(r.Context(), clockId); err != nil {
		w.Header().Set("Content-Type", "application/json")
		respondClockError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondClockError(w http.ResponseWriter, err error) {
	if errors.Is(err, user.ErrNoUser) {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	if errors.Is(err, ErrClockNotFound) {
		writeError(w, http.StatusNotFound, "Clock not found", "")
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeClock(w http.ResponseWriter, c Clock) {
	if err := json.NewEncoder(w).Encode(ClockToDTO(c)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ClockToDTO(c Clock) ClockDTO {
	dto := ClockDTO{
		Id:        c.Id,
		Name:      c.Name,
		City:      c.City,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
	if c.RunwayEndDate != nil {
		endDate := c.RunwayEndDate.Format(time.RFC3339)
		dto.RunwayEndDate = &endDate
	}
	return dto
}
