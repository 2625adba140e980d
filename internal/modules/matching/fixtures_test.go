package matching

import (
	"time"

	"movelink/internal/modules/move"
	"movelink/internal/modules/request"
	"movelink/internal/types"
)

var (
	parisDep  = types.Address{Postal: "75001", City: "Paris", Country: "France"}
	parisDep2 = types.Address{Postal: "75002", City: "Paris", Country: "France"}
	lyonArr   = types.Address{Postal: "69001", City: "Lyon", Country: "France"}
	lyonArr2  = types.Address{Postal: "69002", City: "Lyon", Country: "France"}
	lilleDep  = types.Address{Postal: "59000", City: "Lille", Country: "France"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedRequest(dep, arr types.Address, desired time.Time, volume float64) *request.ClientRequest {
	id := types.NewID()
	return &request.ClientRequest{
		ID:              id,
		Reference:       "REQ-" + string(id)[:8],
		Departure:       dep,
		Arrival:         arr,
		DesiredDate:     desired,
		EstimatedVolume: volume,
		Status:          request.StatusPending,
		MatchStatus:     request.MatchPending,
		CreatedAt:       time.Now(),
	}
}

func flexRequest(dep, arr types.Address, desired, start, end time.Time, volume float64) *request.ClientRequest {
	r := fixedRequest(dep, arr, desired, volume)
	r.FlexibleDates = true
	r.RangeStart = &start
	r.RangeEnd = &end
	return r
}

func testMove(dep, arr types.Address, departure time.Time, maxVolume, usedVolume float64) *move.Move {
	id := types.NewID()
	return &move.Move{
		ID:            id,
		Carrier:       "Transports Petit",
		Reference:     "MOV-" + string(id)[:8],
		Departure:     dep,
		Arrival:       arr,
		DepartureDate: departure,
		MaxVolume:     maxVolume,
		UsedVolume:    usedVolume,
		Status:        move.StatusConfirmed,
		CustomStatus:  move.CustomEnCours,
		CreatedAt:     time.Now(),
	}
}
