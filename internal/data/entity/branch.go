package entity

import (
	"regexp"
	"strconv"
	"strings"

	"branch-locator/pkg/geo"
)

var hoursPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})`)

type Branch struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Services []string `json:"services"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Hours    string   `json:"hours"`
	MapsURL  string   `json:"mapsUrl"`
	City     string   `json:"city"`
}

func (b *Branch) Point() geo.Point {
	return geo.Point{Lat: b.Lat, Lng: b.Lng}
}

// HasService matches case-insensitively against the branch service list.
func (b *Branch) HasService(service string) bool {
	for _, s := range b.Services {
		if strings.EqualFold(s, service) {
			return true
		}
	}
	return false
}

// OpeningHours parses "HH:MM - HH:MM" into minutes after midnight.
// A closing time at or before the opening time means the branch closes after midnight.
func (b *Branch) OpeningHours() (open, close int, ok bool) {
	m := hoursPattern.FindStringSubmatch(b.Hours)
	if m == nil {
		return 0, 0, false
	}

	parts := make([]int, 4)
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, 0, false
		}
		parts[i] = n
	}
	if parts[0] > 24 || parts[1] > 59 || parts[2] > 24 || parts[3] > 59 {
		return 0, 0, false
	}

	open = parts[0]*60 + parts[1]
	close = parts[2]*60 + parts[3]
	if close <= open {
		close += 24 * 60
	}
	return open, close, true
}
