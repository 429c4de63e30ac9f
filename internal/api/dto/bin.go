package dto

import "time"

type CoordinateJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AddBinRequest struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	AmountKg float64 `json:"amount_kg"`
	Location string  `json:"location"`
}

type BinResponse struct {
	ID         string         `json:"id"`
	Location   string         `json:"location"`
	AmountKg   float64        `json:"amount_kg"`
	Coordinate CoordinateJSON `json:"coordinate"`
	CreatedAt  time.Time      `json:"created_at"`
}

type AddBinResponse struct {
	Bin     BinResponse `json:"bin"`
	Warning string      `json:"warning,omitempty"`
}

type ListBinsResponse struct {
	Bins        []BinResponse `json:"bins"`
	CommittedKg float64       `json:"committed_kg"`
	CapacityKg  float64       `json:"capacity_kg"`
	RemainingKg float64       `json:"remaining_kg"`
}

type ClearBinsResponse struct {
	Warning string `json:"warning,omitempty"`
}
