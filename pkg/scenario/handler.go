package scenario

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/runwayclock/runwayclock/internal/rest"
	"github.com/runwayclock/runwayclock/pkg/runway"
	"github.com/runwayclock/runwayclock/pkg/user"
	log "github.com/sirupsen/logrus"
)

type SaveScenarioRequestDTO struct {
	Name         string           `json:"name"`
	Currency     string           `json:"currency,omitempty"`
	StartingCash int64            `json:"startingCash"`
	Expenses     []runway.ItemDTO `json:"expenses"`
	Income       []runway.ItemDTO `json:"income"`
}

type ScenarioDTO struct {
	Id           string               `json:"id"`
	Name         string               `json:"name"`
	Currency     string               `json:"currency"`
	StartingCash int64                `json:"startingCash"`
	Expenses     []runway.ItemDTO     `json:"expenses"`
	Income       []runway.ItemDTO     `json:"income"`
	Projection   runway.ProjectionDTO `json:"projection"`
	CreatedAt    string               `json:"createdAt"`
	UpdatedAt    string               `json:"updatedAt"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Saving scenario")

	var request SaveScenarioRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}

	stored, err := h.service.Save(r.Context(), Scenario{
		Name:         request.Name,
		Currency:     request.Currency,
		StartingCash: request.StartingCash,
		Expenses:     dtoToItems(request.Expenses),
		Income:       dtoToItems(request.Income),
	})
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		if errors.Is(err, ErrNameRequired) || errors.Is(err, ErrNegativeCash) || errors.Is(err, ErrInvalidItem) {
			writeError(w, http.StatusBadRequest, "Invalid scenario", err.Error())
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

func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	scenarioId := mux.Vars(r)["scenarioId"]

	scenario, projection, err := h.service.GetById(r.Context(), scenarioId)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			writeError(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		if errors.Is(err, ErrScenarioNotFound) {
			writeError(w, http.StatusNotFound, "Scenario not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(scenarioToDTO(scenario, projection)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func writeError(w http.ResponseWriter, status int, message string, details string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func scenarioToDTO(s Scenario, projection runway.Projection) ScenarioDTO {
	return ScenarioDTO{
		Id:           s.Id,
		Name:         s.Name,
		Currency:     s.Currency,
		StartingCash: s.StartingCash,
		Expenses:     itemsToDTO(s.Expenses),
		Income:       itemsToDTO(s.Income),
		Projection:   runway.ProjectionToDTO(projection),
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}
}

func dtoToItems(dtos []runway.ItemDTO) []runway.Item {
	items := make([]runway.Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, runway.Item{Name: dto.Name, AmountMonthly: dto.AmountMonthly})
	}
	return items
}

func itemsToDTO(items []runway.Item) []runway.ItemDTO {
	dtos := make([]runway.ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, runway.ItemDTO{Name: item.Name, AmountMonthly: item.AmountMonthly})
	}
	return dtos
}
