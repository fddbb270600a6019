package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"delivery-mitra-service/internal/api/dto"
	"delivery-mitra-service/internal/domain"
	"delivery-mitra-service/internal/platform/obs"
	"delivery-mitra-service/internal/services"
	"delivery-mitra-service/internal/signature"
)

// SessionHandler exposes the delivery lifecycle as HTTP endpoints. Each
// endpoint corresponds to one user action on the dashboard.
type SessionHandler struct {
	Registry *services.Registry
}

// Login authenticates a phone number and opens a session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest

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

	phone := strings.TrimSpace(req.PhoneNumber)
	id, lc, err := h.Registry.Open(r.Context(), phone)
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}

	res := sessionResponse(lc.View())
	res.SessionID = id
	writeJSON(w, r, http.StatusCreated, res)
}

// Task returns the current task view, or a null task when none is open.
func (h *SessionHandler) Task(w http.ResponseWriter, r *http.Request) {
	lc, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(lc.View()))
}

// Refresh re-runs task acquisition: "find next delivery".
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.operate(w, r, "session.Refresh", func(lc *services.Lifecycle) error {
		return lc.Refresh(r.Context())
	})
}

// StartNavigation marks the active order "Out for Delivery".
func (h *SessionHandler) StartNavigation(w http.ResponseWriter, r *http.Request) {
	h.operate(w, r, "session.StartNavigation", func(lc *services.Lifecycle) error {
		return lc.StartNavigation(r.Context())
	})
}

// OpenClosure begins the proof-of-delivery step.
func (h *SessionHandler) OpenClosure(w http.ResponseWriter, r *http.Request) {
	h.operate(w, r, "session.OpenClosure", func(lc *services.Lifecycle) error {
		return lc.RequestClosure()
	})
}

// CancelClosure abandons the proof-of-delivery step.
func (h *SessionHandler) CancelClosure(w http.ResponseWriter, r *http.Request) {
	h.operate(w, r, "session.CancelClosure", func(lc *services.Lifecycle) error {
		return lc.CancelClosure()
	})
}

// Stroke records one signature stroke.
func (h *SessionHandler) Stroke(w http.ResponseWriter, r *http.Request) {
	lc, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.StrokeRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	points := make([]signature.Point, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, signature.Point{X: p.X, Y: p.Y})
	}

	if err := lc.RecordStroke(points); err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(lc.View()))
}

// Finalize marks the order delivered and stores the signature.
func (h *SessionHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	h.operate(w, r, "session.Finalize", func(lc *services.Lifecycle) error {
		return lc.FinalizeClosure(r.Context())
	})
}

// Logout ends the session unconditionally.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.Registry.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// operate runs one lifecycle operation and replies with the updated view.
func (h *SessionHandler) operate(w http.ResponseWriter, r *http.Request, op string, fn func(*services.Lifecycle) error) {
	lc, ok := h.session(w, r)
	if !ok {
		return
	}

	var err error
	done := obs.Time(r.Context(), op)
	err = fn(lc)
	done(&err)

	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse(lc.View()))
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Lifecycle, bool) {
	id := mux.Vars(r)["id"]
	lc, ok := h.Registry.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return lc, true
}

func writeLifecycleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPhone):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAgentNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		var pe *domain.PersistenceError
		if errors.As(err, &pe) {
			log.Printf("persistence failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
			writeError(w, r, http.StatusBadGateway, "could not save changes, please retry")
			return
		}
		log.Printf("request failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func sessionResponse(v services.View) dto.SessionResponse {
	res := dto.SessionResponse{State: v.State.String()}
	if v.Agent != nil {
		res.Agent = &dto.AgentResponse{
			AgentID:     v.Agent.AgentID,
			PhoneNumber: v.Agent.PhoneNumber,
			StoreName:   v.Agent.Store.LocationName,
		}
	}
	if v.Task != nil {
		task := &dto.TaskResponse{
			OrderID:         v.Task.Order.OrderID,
			Status:          string(v.Task.Order.Status),
			CustomerName:    v.Task.Order.Customer.FullName,
			DeliveryAddress: v.Task.Order.Customer.DeliveryAddress,
			DistanceKm:      v.Task.DistanceKm,
			MapURL:          mapURL(v.Task.Order.Customer.Coords),
		}
		if v.Task.Traffic != nil {
			score := v.Task.Traffic.CongestionScore
			task.CongestionScore = &score
			task.EtdMinutes = v.Task.Traffic.EtdMinutes
		}
		res.Task = task
	}
	return res
}

// Margin around the customer location for the embedded static map.
const mapMarginDeg = 0.01

// mapURL builds a read-only OpenStreetMap embed keyed by a bounding box
// around the customer, with a marker at the customer location. Empty when
// the coordinates are unknown.
func mapURL(c domain.Coordinates) string {
	if !c.Known() {
		return ""
	}
	return fmt.Sprintf(
		"https://www.openstreetmap.org/export/embed.html?bbox=%f,%f,%f,%f&marker=%f,%f",
		c.Lon-mapMarginDeg, c.Lat-mapMarginDeg,
		c.Lon+mapMarginDeg, c.Lat+mapMarginDeg,
		c.Lat, c.Lon,
	)
}
