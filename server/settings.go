package server

import (
	"encoding/json"
	"net/http"

	"github.com/s0up4200/moviedeck/settings"
)

// SettingsResponse is the persisted user state
type SettingsResponse struct {
	DarkMode bool             `json:"dark_mode"`
	Listing  settings.Listing `json:"listing"`
}

type themeRequest struct {
	DarkMode *bool `json:"dark_mode"`
}

func (s *Server) settingsResponse() SettingsResponse {
	return SettingsResponse{
		DarkMode: s.settings.DarkMode(),
		Listing:  s.settings.Listing(),
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settingsResponse())
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil || body.DarkMode == nil {
		writeError(w, http.StatusBadRequest, `body must be {"dark_mode": true|false}`)
		return
	}

	if err := s.settings.SetTheme(*body.DarkMode); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.settingsResponse())
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	if _, err := s.settings.ToggleTheme(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.settingsResponse())
}
