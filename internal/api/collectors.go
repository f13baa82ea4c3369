package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/playok/telemon/internal/collector"
)

type collectorsAPI struct {
	registry *collector.Registry
}

func (a *collectorsAPI) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.registry.ListCollectors())
}

func (a *collectorsAPI) enable(w http.ResponseWriter, r *http.Request) {
	a.setState(w, r.PathValue("id"), true)
}

func (a *collectorsAPI) disable(w http.ResponseWriter, r *http.Request) {
	a.setState(w, r.PathValue("id"), false)
}

func (a *collectorsAPI) setState(w http.ResponseWriter, id string, on bool) {
	var err error
	status := "enabled"
	if on {
		err = a.registry.Enable(id)
	} else {
		err = a.registry.Disable(id)
		status = "disabled"
	}
	if err != nil {
		if errors.Is(err, collector.ErrCollectorNotFound) {
			writeError(w, http.StatusNotFound, "collector not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
