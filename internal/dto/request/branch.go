package request

type BranchQuery struct {
	City    string
	Service string
	Q       string
	PaginatedRequest
}

type NearestRequest struct {
	Lat   float64 `json:"lat" validate:"latitude"`
	Lng   float64 `json:"lng" validate:"longitude"`
	Limit int     `json:"limit" validate:"min=1,max=50"`
}

type DirectionsRequest struct {
	OriginLat float64 `json:"originLat" validate:"latitude"`
	OriginLng float64 `json:"originLng" validate:"longitude"`
	DestLat   float64 `json:"destLat" validate:"latitude"`
	DestLng   float64 `json:"destLng" validate:"longitude"`
	// BranchID, when set, replaces the destination with the branch location.
	BranchID int    `json:"branchId" validate:"min=0"`
	Vehicle  string `json:"vehicle" validate:"oneof=car motorcycle bike foot"`
}
