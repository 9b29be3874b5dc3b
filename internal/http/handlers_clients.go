package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"invoicesense/internal/core"
	"invoicesense/internal/datastore"
)

// clientPayload is the wire shape for client records.
type clientPayload struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Status   string `json:"status"`
	JoinDate string `json:"joinDate,omitempty"`
}

func toClientPayload(c core.Client) clientPayload {
	p := clientPayload{
		ID:       c.ID,
		ClientID: c.ClientID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		Website:  c.Website,
		Industry: c.Industry,
		Notes:    c.Notes,
		Status:   c.Status,
	}
	if !c.JoinDate.IsZero() {
		p.JoinDate = core.ISODate(c.JoinDate)
	}
	return p
}

func (p clientPayload) toClient() core.Client {
	c := core.Client{
		ID:       p.ID,
		ClientID: p.ClientID,
		Name:     sanitizeInput(p.Name),
		Email:    sanitizeInput(p.Email),
		Phone:    sanitizeInput(p.Phone),
		Address:  sanitizeInput(p.Address),
		Website:  sanitizeInput(p.Website),
		Industry: sanitizeInput(p.Industry),
		Notes:    sanitizeInput(p.Notes),
		Status:   sanitizeInput(p.Status),
	}
	if p.JoinDate != "" {
		if t, err := core.ParseTimestamp(p.JoinDate); err == nil {
			c.JoinDate = t
		}
	}
	return c
}

// handleClients serves GET (list) and POST (create) on /api/clients.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listClients(w, r)
	case http.MethodPost:
		s.createClient(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleClientByID serves PUT and DELETE on /api/clients/{id}.
func (s *Server) handleClientByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/clients/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateClient(w, r, id)
	case http.MethodDelete:
		s.deleteClient(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.cliSource.ListClients(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List clients error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load clients")
		return
	}

	payload := make([]clientPayload, 0, len(clients))
	for _, c := range clients {
		payload = append(payload, toClientPayload(c))
	}
	writeJSON(w, http.StatusOK, payload, "")
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var p clientPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := p.toClient()
	c.ID = ""
	if c.Status == "" {
		c.Status = core.StatusActive
	}
	if c.JoinDate.IsZero() {
		c.JoinDate = time.Now()
	}

	if err := validateClientRequest(c); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	id, err := s.cliWriter.CreateClient(r.Context(), c)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create client error", "error", err, "name", c.Name)
		writeError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	s.invalidatePayloads()
	c.ID = id
	writeJSON(w, http.StatusCreated, toClientPayload(c), "client created")
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request, id string) {
	var p clientPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := p.toClient()
	c.ID = id

	if err := validateClientRequest(c); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	if err := s.cliWriter.UpdateClient(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Update client error", "error", err, "id", id)
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	s.invalidatePayloads()
	writeJSON(w, http.StatusOK, toClientPayload(c), "client updated")
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.cliWriter.DeleteClient(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete client error", "error", err, "id", id)
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}

	s.invalidatePayloads()
	writeJSON(w, http.StatusOK, nil, "client deleted")
}

// validateClientRequest applies the API rules on top of the domain ones:
// records submitted through the clients endpoints must carry an email,
// unlike roster entries auto-created from uploads.
func validateClientRequest(c core.Client) error {
	if c.Email == "" {
		return core.ErrInvalidEmail
	}
	return c.Validate()
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "client name is required"
	case errors.Is(err, core.ErrInvalidEmail):
		return "a valid email address is required"
	default:
		return err.Error()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, datastore.ErrNotFound)
}
