package runway

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/runwayclock/runwayclock/internal/rest"
	"github.com/runwayclock/runwayclock/internal/utils"
	log "github.com/sirupsen/logrus"
)

type ItemDTO struct {
	Name          string `json:"name"`
	AmountMonthly int64  `json:"amountMonthly"`
}

type PreviewRequestDTO struct {
	Expenses     []ItemDTO `json:"expenses"`
	Income       []ItemDTO `json:"income"`
	StartingCash int64     `json:"startingCash"`
}

// ProjectionDTO carries a computed runway. RunwayDays and EndDate are null
// when the runway is infinite, since JSON has no encoding for infinity.
type ProjectionDTO struct {
	DailyBurn  float64  `json:"dailyBurn"`
	RunwayDays *float64 `json:"runwayDays"`
	EndDate    *string  `json:"endDate"`
	Profitable bool     `json:"profitable"`
}

type Handler struct {
	clock utils.Clock
}

func NewHandler(clock utils.Clock) *Handler {
	return &Handler{clock: clock}
}

// Preview computes a runway projection from the posted line items without
// persisting anything.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Computing runway preview")

	var request PreviewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if details, ok := validatePreviewRequest(request); !ok {
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid runway input",
			Details: details,
		}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	projection := Project(dtoToItems(request.Expenses), dtoToItems(request.Income), request.StartingCash, h.clock.Now())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ProjectionToDTO(projection)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func validatePreviewRequest(request PreviewRequestDTO) (string, bool) {
	if request.StartingCash < 0 {
		return "startingCash must not be negative", false
	}
	for _, item := range append(request.Expenses, request.Income...) {
		if item.Name == "" {
			return "every item needs a name", false
		}
		if item.AmountMonthly < 0 {
			return "item amounts must not be negative", false
		}
	}
	return "", true
}

func dtoToItems(dtos []ItemDTO) []Item {
	items := make([]Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, Item{Name: dto.Name, AmountMonthly: dto.AmountMonthly})
	}
	return items
}

func ProjectionToDTO(projection Projection) ProjectionDTO {
	dto := ProjectionDTO{
		DailyBurn:  projection.DailyBurn,
		Profitable: projection.Profitable,
	}
	if !math.IsInf(projection.RunwayDays, 1) {
		days := projection.RunwayDays
		dto.RunwayDays = &days
	}
	if projection.EndDate != nil {
		endDate := projection.EndDate.Format(time.RFC3339)
		dto.EndDate = &endDate
	}
	return dto
}
