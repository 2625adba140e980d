// README: Match handlers: generate, list, accept, reject.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movelink/internal/modules/matching"
	"movelink/internal/types"
)

type MatchHandler struct {
	matching *matching.Service
}

func NewMatchHandler(svc *matching.Service) *MatchHandler {
	return &MatchHandler{matching: svc}
}

func (h *MatchHandler) Generate(c *gin.Context) {
	report, err := h.matching.Generate(c.Request.Context())
	if err != nil {
		// A partial report still tells the caller how far the run got.
		if report != nil {
			writeJSON(c, http.StatusInternalServerError, gin.H{
				"error":  err.Error(),
				"report": report,
			})
			return
		}
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, report)
}

type matchView struct {
	ID             string    `json:"id"`
	Reference      string    `json:"reference"`
	RequestID      string    `json:"request_id"`
	MoveID         string    `json:"move_id"`
	DistanceKm     int       `json:"distance_km"`
	DateDiffDays   int       `json:"date_diff_days"`
	CombinedVolume float64   `json:"combined_volume"`
	VolumeOK       bool      `json:"volume_ok"`
	Type           string    `json:"match_type"`
	Valid          bool      `json:"is_valid"`
	Decision       string    `json:"decision"`
	CreatedAt      time.Time `json:"created_at"`

	Request requestView `json:"request"`
	Move    moveView    `json:"move"`
}

type requestView struct {
	Reference     string    `json:"reference"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	DesiredDate   time.Time `json:"desired_date"`
	Volume        float64   `json:"volume"`
}

type moveView struct {
	Carrier         string    `json:"carrier"`
	Reference       string    `json:"reference"`
	DepartureCity   string    `json:"departure_city"`
	ArrivalCity     string    `json:"arrival_city"`
	DepartureDate   time.Time `json:"departure_date"`
	AvailableVolume float64   `json:"available_volume"`
}

func (h *MatchHandler) List(c *gin.Context) {
	details, err := h.matching.ListDetails(c.Request.Context())
	if err != nil {
		writeMatchError(c, err)
		return
	}

	views := make([]matchView, 0, len(details))
	for _, d := range details {
		decision := "pending"
		if n := len(d.Actions); n > 0 {
			decision = string(d.Actions[n-1].Decision)
		}
		views = append(views, matchView{
			ID:             string(d.Match.ID),
			Reference:      d.Match.Reference,
			RequestID:      string(d.RequestID),
			MoveID:         string(d.MoveID),
			DistanceKm:     d.DistanceKm,
			DateDiffDays:   d.DateDiffDays,
			CombinedVolume: d.CombinedVolume,
			VolumeOK:       d.VolumeOK,
			Type:           string(d.Type),
			Valid:          d.Valid,
			Decision:       decision,
			CreatedAt:      d.Match.CreatedAt,
			Request: requestView{
				Reference:     d.Request.Reference,
				DepartureCity: d.Request.DepartureCity,
				ArrivalCity:   d.Request.ArrivalCity,
				DesiredDate:   d.Request.DesiredDate,
				Volume:        d.Request.Volume,
			},
			Move: moveView{
				Carrier:         d.Move.Carrier,
				Reference:       d.Move.Reference,
				DepartureCity:   d.Move.DepartureCity,
				ArrivalCity:     d.Move.ArrivalCity,
				DepartureDate:   d.Move.DepartureDate,
				AvailableVolume: d.Move.MaxVolume - d.Move.UsedVolume,
			},
		})
	}
	writeJSON(c, http.StatusOK, gin.H{"matches": views})
}

type decisionReq struct {
	Actor string `json:"actor"`
	Notes string `json:"notes"`
}

func (h *MatchHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing match id")
		return
	}
	var req decisionReq
	_ = c.ShouldBindJSON(&req) // body is optional

	err := h.matching.Accept(c.Request.Context(), matching.AcceptCommand{
		MatchID: types.ID(id),
		Actor:   req.Actor,
		Notes:   req.Notes,
	})
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"match_id": id, "decision": matching.DecisionAccepted})
}

func (h *MatchHandler) Reject(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing match id")
		return
	}
	var req decisionReq
	_ = c.ShouldBindJSON(&req)

	err := h.matching.Reject(c.Request.Context(), matching.RejectCommand{
		MatchID: types.ID(id),
		Actor:   req.Actor,
		Notes:   req.Notes,
	})
	if err != nil {
		writeMatchError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"match_id": id, "decision": matching.DecisionRejected})
}
