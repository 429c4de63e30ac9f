package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func toBinResponse(b domain.BinRecord) dto.BinResponse {
	return dto.BinResponse{
		ID:       b.ID,
		Location: b.Location,
		AmountKg: b.AmountKg,
		Coordinate: dto.CoordinateJSON{
			Lat: b.Coordinate.Lat,
			Lng: b.Coordinate.Lng,
		},
		CreatedAt: b.CreatedAt,
	}
}
