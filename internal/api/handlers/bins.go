package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"waste-route-service/internal/api/dto"
	"waste-route-service/internal/domain"
	"waste-route-service/internal/ports"
	"waste-route-service/internal/services"
)

// BinHandler exposes the client-facing bin submission surface.
type BinHandler struct {
	Registry *services.BinRegistry
	Geocoder ports.Geocoder
}

// Bins dispatches /bins by method: report a bin, list the pending set
// or clear it.
func (h *BinHandler) Bins(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.add(w, r)
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *BinHandler) add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddBinRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	coord := domain.Coordinates{Lat: req.Lat, Lng: req.Lng}
	if !coord.Valid() {
		writeError(w, r, http.StatusBadRequest, "a pinned location is required")
		return
	}

	// Best-effort display label; a geocoding failure degrades to the
	// pinned-coordinate placeholder instead of blocking the submission.
	location := strings.TrimSpace(req.Location)
	if location == "" && h.Geocoder != nil {
		addr, err := h.Geocoder.ReverseGeocode(r.Context(), coord)
		switch {
		case err == nil:
			location = addr
		case errors.Is(err, ports.ErrNoAddress):
			location = ""
		default:
			log.Printf("reverse geocode failed: %v", err)
		}
	}

	rec, err := h.Registry.Add(r.Context(), coord, req.AmountKg, location)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusCreated, dto.AddBinResponse{Bin: toBinResponse(rec)})
	case errors.Is(err, domain.ErrNotPositive),
		errors.Is(err, domain.ErrCapacityExceeded):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPersistenceFailed):
		// Degraded mode: the record is live for this session but may
		// not survive a reload.
		log.Printf("add bin persist failed: %v", err)
		writeJSON(w, r, http.StatusCreated, dto.AddBinResponse{
			Bin:     toBinResponse(rec),
			Warning: "bin saved in memory only; storage is unavailable",
		})
	default:
		log.Printf("add bin failed: %v", err)
		writeError(w, r, http.StatusBadRequest, err.Error())
	}
}

func (h *BinHandler) list(w http.ResponseWriter, r *http.Request) {
	bins := h.Registry.List()

	res := dto.ListBinsResponse{
		Bins:        make([]dto.BinResponse, 0, len(bins)),
		CommittedKg: h.Registry.Committed(),
		CapacityKg:  h.Registry.Capacity(),
		RemainingKg: h.Registry.Remaining(),
	}
	for _, b := range bins {
		res.Bins = append(res.Bins, toBinResponse(b))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *BinHandler) clear(w http.ResponseWriter, r *http.Request) {
	res := dto.ClearBinsResponse{}
	if err := h.Registry.Clear(r.Context()); err != nil {
		log.Printf("clear bins persist failed: %v", err)
		res.Warning = "bins cleared in memory only; storage is unavailable"
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Reload re-reads the shared store so the driver surface picks up bins
// submitted by the client surface since startup.
func (h *BinHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.Registry.Load(r.Context()); err != nil {
		if errors.Is(err, domain.ErrStorageCorrupt) {
			log.Printf("reload bins: %v", err)
			writeJSON(w, r, http.StatusOK, dto.ClearBinsResponse{
				Warning: "stored bin set was unreadable; starting from an empty set",
			})
			return
		}
		log.Printf("reload bins failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.list(w, r)
}
