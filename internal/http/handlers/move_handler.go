// README: Move booking handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movelink/internal/modules/move"
	"movelink/internal/types"
)

type MoveHandler struct {
	moves *move.Service
}

func NewMoveHandler(svc *move.Service) *MoveHandler {
	return &MoveHandler{moves: svc}
}

type createMoveReq struct {
	Carrier         string  `json:"carrier" binding:"required"`
	DeparturePostal string  `json:"departure_postal" binding:"required"`
	DepartureCity   string  `json:"departure_city" binding:"required"`
	ArrivalPostal   string  `json:"arrival_postal" binding:"required"`
	ArrivalCity     string  `json:"arrival_city" binding:"required"`
	DepartureDate   string  `json:"departure_date" binding:"required"`
	MaxVolume       float64 `json:"max_volume" binding:"required,gt=0"`
}

func (h *MoveHandler) Create(c *gin.Context) {
	var req createMoveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	departure, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid departure_date")
		return
	}

	m, err := h.moves.Create(c.Request.Context(), move.CreateCommand{
		Carrier:       req.Carrier,
		Departure:     types.Address{Postal: req.DeparturePostal, City: req.DepartureCity},
		Arrival:       types.Address{Postal: req.ArrivalPostal, City: req.ArrivalCity},
		DepartureDate: departure,
		MaxVolume:     req.MaxVolume,
	})
	if err != nil {
		writeMoveError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"move_id":   m.ID,
		"reference": m.Reference,
		"status":    m.Status,
	})
}

// List returns the moves still offering capacity to the matcher.
func (h *MoveHandler) List(c *gin.Context) {
	moves, err := h.moves.ListActive(c.Request.Context())
	if err != nil {
		writeMoveError(c, err)
		return
	}
	views := make([]gin.H, 0, len(moves))
	for _, m := range moves {
		views = append(views, gin.H{
			"move_id":          m.ID,
			"carrier":          m.Carrier,
			"reference":        m.Reference,
			"departure_city":   m.Departure.City,
			"arrival_city":     m.Arrival.City,
			"departure_date":   m.DepartureDate.Format(dateLayout),
			"available_volume": m.AvailableVolume(),
		})
	}
	writeJSON(c, http.StatusOK, gin.H{"moves": views})
}

func (h *MoveHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing move id")
		return
	}
	m, err := h.moves.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeMoveError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"move_id":          m.ID,
		"carrier":          m.Carrier,
		"reference":        m.Reference,
		"departure_city":   m.Departure.City,
		"arrival_city":     m.Arrival.City,
		"departure_date":   m.DepartureDate.Format(dateLayout),
		"max_volume":       m.MaxVolume,
		"used_volume":      m.UsedVolume,
		"available_volume": m.AvailableVolume(),
		"status":           m.Status,
		"custom_status":    m.CustomStatus,
	})
}
