package response

import (
	"branch-locator/internal/mapsapi"
	"branch-locator/pkg/geo"
)

type DirectionsResponse struct {
	Origin      geo.Point       `json:"origin"`
	Destination geo.Point       `json:"destination"`
	Branch      *BranchResponse `json:"branch,omitempty"`
	Vehicle     string          `json:"vehicle"`
	Route       *mapsapi.Route  `json:"route"`
}

type GeocodeResponse = mapsapi.Place
