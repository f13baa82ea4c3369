package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

type metricsAPI struct {
	store     *store.Store
	registry  *collector.Registry
	scheduler *collector.Scheduler
}

func (a *metricsAPI) snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.scheduler.Snapshot())
}

func (a *metricsAPI) query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name parameter required")
		return
	}

	now := time.Now().Unix()
	from := queryInt(q.Get("from"), now-3600)
	to := queryInt(q.Get("to"), now)
	step := int(queryInt(q.Get("step"), 0))

	var names []string
	for _, n := range strings.Split(name, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	samples, err := a.store.QueryMetrics(names, from, to, step)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if samples == nil {
		samples = []model.MetricSample{}
	}
	writeJSON(w, http.StatusOK, samples)
}

func queryInt(s string, def int64) int64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}

type metricInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

type metricGroup struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Metrics []metricInfo `json:"metrics"`
}

// available lists metrics per collector, merging declared names with
// anything actually stored.
func (a *metricsAPI) available(w http.ResponseWriter, r *http.Request) {
	metas, err := a.store.GetDistinctMetrics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stored := map[string][]string{}
	for _, m := range metas {
		stored[m.Collector] = append(stored[m.Collector], m.MetricName)
	}

	groups := []metricGroup{}
	for _, c := range a.registry.ListCollectors() {
		seen := map[string]bool{}
		var names []string
		for _, ms := range c.MetricStates {
			if !seen[ms.Name] {
				seen[ms.Name] = true
				names = append(names, ms.Name)
			}
		}
		for _, n := range stored[c.ID] {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
		sort.Strings(names)

		g := metricGroup{ID: c.ID, Label: c.Name, Metrics: make([]metricInfo, len(names))}
		for i, n := range names {
			desc := collector.LookupMetricDesc(n)
			g.Metrics[i] = metricInfo{Name: n, Description: desc.Description, Unit: desc.Unit}
		}
		groups = append(groups, g)
	}
	writeJSON(w, http.StatusOK, groups)
}
