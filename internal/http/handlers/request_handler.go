// README: Client request intake handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movelink/internal/modules/request"
	"movelink/internal/types"
)

const dateLayout = "2006-01-02"

type RequestHandler struct {
	requests *request.Service
}

func NewRequestHandler(svc *request.Service) *RequestHandler {
	return &RequestHandler{requests: svc}
}

type createRequestReq struct {
	DeparturePostal  string  `json:"departure_postal" binding:"required"`
	DepartureCity    string  `json:"departure_city" binding:"required"`
	DepartureCountry string  `json:"departure_country"`
	ArrivalPostal    string  `json:"arrival_postal" binding:"required"`
	ArrivalCity      string  `json:"arrival_city" binding:"required"`
	ArrivalCountry   string  `json:"arrival_country"`
	DesiredDate      string  `json:"desired_date" binding:"required"`
	FlexibleDates    bool    `json:"flexible_dates"`
	DateRangeStart   string  `json:"date_range_start"`
	DateRangeEnd     string  `json:"date_range_end"`
	EstimatedVolume  float64 `json:"estimated_volume" binding:"required,gt=0"`
}

func (h *RequestHandler) Create(c *gin.Context) {
	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	desired, err := time.Parse(dateLayout, req.DesiredDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid desired_date")
		return
	}
	var rangeStart, rangeEnd *time.Time
	if req.DateRangeStart != "" {
		t, err := time.Parse(dateLayout, req.DateRangeStart)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid date_range_start")
			return
		}
		rangeStart = &t
	}
	if req.DateRangeEnd != "" {
		t, err := time.Parse(dateLayout, req.DateRangeEnd)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid date_range_end")
			return
		}
		rangeEnd = &t
	}

	r, err := h.requests.Create(c.Request.Context(), request.CreateCommand{
		Departure: types.Address{
			Postal: req.DeparturePostal, City: req.DepartureCity, Country: req.DepartureCountry,
		},
		Arrival: types.Address{
			Postal: req.ArrivalPostal, City: req.ArrivalCity, Country: req.ArrivalCountry,
		},
		DesiredDate:     desired,
		FlexibleDates:   req.FlexibleDates,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
		EstimatedVolume: req.EstimatedVolume,
	})
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"request_id": r.ID,
		"reference":  r.Reference,
		"status":     r.Status,
	})
}

func (h *RequestHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing request id")
		return
	}
	r, err := h.requests.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"request_id":       r.ID,
		"reference":        r.Reference,
		"status":           r.Status,
		"is_matched":       r.IsMatched,
		"match_status":     r.MatchStatus,
		"desired_date":     r.DesiredDate.Format(dateLayout),
		"flexible_dates":   r.FlexibleDates,
		"estimated_volume": r.EstimatedVolume,
		"departure_city":   r.Departure.City,
		"arrival_city":     r.Arrival.City,
	})
}

// List returns the requests still eligible for matching.
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.requests.ListActive(c.Request.Context())
	if err != nil {
		writeRequestError(c, err)
		return
	}
	views := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		views = append(views, gin.H{
			"request_id":       r.ID,
			"reference":        r.Reference,
			"status":           r.Status,
			"desired_date":     r.DesiredDate.Format(dateLayout),
			"flexible_dates":   r.FlexibleDates,
			"estimated_volume": r.EstimatedVolume,
			"departure_city":   r.Departure.City,
			"arrival_city":     r.Arrival.City,
		})
	}
	writeJSON(c, http.StatusOK, gin.H{"requests": views})
}

func (h *RequestHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing request id")
		return
	}
	if err := h.requests.Complete(c.Request.Context(), types.ID(id)); err != nil {
		writeRequestError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"request_id": id, "status": request.StatusCompleted})
}
