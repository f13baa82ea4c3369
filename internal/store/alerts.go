package store

import (
	"database/sql"
	"errors"

	"github.com/playok/telemon/internal/model"
)

// ErrRuleNotFound is returned when an alert rule ID does not exist.
var ErrRuleNotFound = errors.New("alert rule not found")

// ListAlertRules returns all alert rules.
func (s *Store) ListAlertRules() ([]model.AlertRule, error) {
	rows, err := s.db.Query("SELECT id, metric_pattern, operator, threshold, severity, label, message, enabled FROM alert_rules ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.AlertRule
	for rows.Next() {
		var r model.AlertRule
		var enabled int
		if err := rows.Scan(&r.ID, &r.MetricPattern, &r.Operator, &r.Threshold, &r.Severity, &r.Label, &r.Message, &enabled); err != nil {
			return nil, err
		}
		r.Enabled = enabled != 0
		result = append(result, r)
	}
	return result, rows.Err()
}

// CountAlertRules returns the number of stored rules.
func (s *Store) CountAlertRules() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM alert_rules").Scan(&n)
	return n, err
}

// SeedAlertRules inserts rules only when the table is empty. It reports
// whether anything was inserted.
func (s *Store) SeedAlertRules(rules []model.AlertRule) (bool, error) {
	n, err := s.CountAlertRules()
	if err != nil || n > 0 {
		return false, err
	}
	for i := range rules {
		if _, err := s.CreateAlertRule(&rules[i]); err != nil {
			return false, err
		}
	}
	return true, nil
}

// CreateAlertRule inserts a new alert rule and returns the ID.
func (s *Store) CreateAlertRule(r *model.AlertRule) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO alert_rules (metric_pattern, operator, threshold, severity, label, message, enabled) VALUES (?, ?, ?, ?, ?, ?, ?)",
		r.MetricPattern, r.Operator, r.Threshold, r.Severity, r.Label, r.Message, boolInt(r.Enabled))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err == nil {
		r.ID = id
	}
	return id, err
}

// UpdateAlertRule updates an existing alert rule.
func (s *Store) UpdateAlertRule(r *model.AlertRule) error {
	res, err := s.db.Exec(
		"UPDATE alert_rules SET metric_pattern=?, operator=?, threshold=?, severity=?, label=?, message=?, enabled=? WHERE id=?",
		r.MetricPattern, r.Operator, r.Threshold, r.Severity, r.Label, r.Message, boolInt(r.Enabled), r.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteAlertRule deletes an alert rule by ID.
func (s *Store) DeleteAlertRule(id int64) error {
	res, err := s.db.Exec("DELETE FROM alert_rules WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRuleNotFound
	}
	return nil
}
