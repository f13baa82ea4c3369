package store

import (
	"database/sql"
	"errors"

	"github.com/playok/telemon/internal/model"
)

// SetCollectorEnabled sets the enabled state of a collector.
func (s *Store) SetCollectorEnabled(id string, enabled bool) error {
	_, err := s.db.Exec(`
		INSERT INTO collector_state (collector_id, enabled) VALUES (?, ?)
		ON CONFLICT(collector_id) DO UPDATE SET enabled = excluded.enabled`,
		id, boolInt(enabled))
	return err
}

// GetAllCollectorStates returns all saved collector states.
func (s *Store) GetAllCollectorStates() ([]model.CollectorState, error) {
	rows, err := s.db.Query("SELECT collector_id, enabled FROM collector_state ORDER BY collector_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.CollectorState
	for rows.Next() {
		var cs model.CollectorState
		var enabled int
		if err := rows.Scan(&cs.CollectorID, &enabled); err != nil {
			return nil, err
		}
		cs.Enabled = enabled != 0
		result = append(result, cs)
	}
	return result, rows.Err()
}

// GetSetting returns a setting value, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting upserts a setting.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetAllSettings returns all settings.
func (s *Store) GetAllSettings() ([]model.Setting, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Setting
	for rows.Next() {
		var st model.Setting
		if err := rows.Scan(&st.Key, &st.Value); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	return result, rows.Err()
}
