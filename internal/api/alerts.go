package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

type alertsAPI struct {
	alertEngine *collector.AlertEngine
	store       *store.Store
}

func (a *alertsAPI) list(w http.ResponseWriter, r *http.Request) {
	alerts := a.alertEngine.ActiveAlerts()
	if alerts == nil {
		alerts = []model.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (a *alertsAPI) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := a.store.ListAlertRules()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rules == nil {
		rules = []model.AlertRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (a *alertsAPI) createRule(w http.ResponseWriter, r *http.Request) {
	rule, ok := decodeRule(w, r)
	if !ok {
		return
	}
	if _, err := a.store.CreateAlertRule(&rule); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.reload()
	writeJSON(w, http.StatusCreated, rule)
}

func (a *alertsAPI) updateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}
	rule, ok := decodeRule(w, r)
	if !ok {
		return
	}
	rule.ID = id
	if err := a.store.UpdateAlertRule(&rule); err != nil {
		writeStoreError(w, err)
		return
	}
	a.reload()
	writeJSON(w, http.StatusOK, rule)
}

func (a *alertsAPI) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := ruleID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeleteAlertRule(id); err != nil {
		writeStoreError(w, err)
		return
	}
	a.reload()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *alertsAPI) reload() {
	if err := a.alertEngine.LoadRules(a.store); err != nil {
		log.Error().Str("component", "alerts").Err(err).Msg("reload rules")
	}
}

func ruleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodeRule(w http.ResponseWriter, r *http.Request) (model.AlertRule, bool) {
	var rule model.AlertRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return rule, false
	}
	if rule.MetricPattern == "" {
		writeError(w, http.StatusBadRequest, "metric_pattern required")
		return rule, false
	}
	if !collector.ValidOperator(rule.Operator) {
		writeError(w, http.StatusBadRequest, "operator must be one of gt, gte, lt, lte")
		return rule, false
	}
	if rule.Severity == "" {
		rule.Severity = model.SeverityWarning
	}
	return rule, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrRuleNotFound) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
