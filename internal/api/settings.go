package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/store"
)

// Runtime setting keys accepted by PUT /api/v1/settings.
const (
	SettingCollectInterval = "collect_interval"
	SettingRetentionHours  = "retention_hours"
)

type settingsAPI struct {
	store     *store.Store
	scheduler *collector.Scheduler
}

func (a *settingsAPI) list(w http.ResponseWriter, r *http.Request) {
	settings, err := a.store.GetAllSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	m := make(map[string]string, len(settings))
	for _, s := range settings {
		m[s.Key] = s.Value
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *settingsAPI) update(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Validate everything before persisting anything.
	for _, key := range []string{SettingCollectInterval, SettingRetentionHours} {
		v, ok := body[key]
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(v); err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, key+" must be a positive integer")
			return
		}
	}

	for k, v := range body {
		if err := a.store.SetSetting(k, v); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if v, ok := body[SettingCollectInterval]; ok && a.scheduler != nil {
		sec, _ := strconv.Atoi(v)
		a.scheduler.UpdateInterval(sec)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (a *settingsAPI) dbInfo(w http.ResponseWriter, r *http.Request) {
	dbPath := a.store.DBPath()
	info := map[string]interface{}{
		"path": dbPath,
		"size": int64(0),
	}
	if fi, err := os.Stat(dbPath); err == nil {
		info["size"] = fi.Size()
	}
	if fi, err := os.Stat(dbPath + "-wal"); err == nil {
		info["wal_size"] = fi.Size()
	}
	writeJSON(w, http.StatusOK, info)
}
