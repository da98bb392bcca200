package response

import (
	"branch-locator/internal/data/entity"
)

type BranchResponse struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Services      []string `json:"services"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Hours         string   `json:"hours"`
	MapsURL       string   `json:"mapsUrl"`
	City          string   `json:"city"`
	Distance      *float64 `json:"distance,omitempty"` // meters
	DistanceLabel string   `json:"distanceLabel,omitempty"`
}

type CityResponse struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type SlotsResponse struct {
	BranchID int      `json:"branchId"`
	Hours    string   `json:"hours"`
	Slots    []string `json:"slots"`
	// Fallback is set when the opening hours could not be parsed.
	Fallback bool `json:"fallback"`
}

func BranchToResponse(b *entity.Branch) BranchResponse {
	return BranchResponse{
		ID:       b.ID,
		Name:     b.Name,
		Address:  b.Address,
		Phone:    b.Phone,
		Services: b.Services,
		Lat:      b.Lat,
		Lng:      b.Lng,
		Hours:    b.Hours,
		MapsURL:  b.MapsURL,
		City:     b.City,
	}
}
