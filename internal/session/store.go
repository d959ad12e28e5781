package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id    TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL,
	ended_at      TEXT,
	baseline_json TEXT NOT NULL,
	summary_json  TEXT
);

CREATE TABLE IF NOT EXISTS events (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id      TEXT NOT NULL,
	session_id    TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	payload_json  TEXT,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id)
);

CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
`

// #endregion schema

// #region store-struct

// Store persists sessions and their event logs in SQLite. This is the
// only state expected to survive a process restart.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region save-session

// SaveSession inserts a freshly started session row.
func (s *Store) SaveSession(sess *Session) error {
	baseline, err := json.Marshal(sess.Baseline)
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (session_id, started_at, baseline_json) VALUES (?, ?, ?)`,
		sess.ID, sess.StartedAt.Format(time.RFC3339Nano), string(baseline),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FinishSession records the end time and summary of a completed session.
func (s *Store) FinishSession(sess *Session, summary Summary) error {
	if sess.EndedAt == nil {
		return fmt.Errorf("session %s has no end time", sess.ID)
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE sessions SET ended_at = ?, summary_json = ? WHERE session_id = ?`,
		sess.EndedAt.Format(time.RFC3339Nano), string(summaryJSON), sess.ID,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// #endregion save-session

// #region append-event

// AppendEvent writes one event row.
func (s *Store) AppendEvent(ev Event) error {
	var payload any
	if len(ev.Payload) > 0 {
		b, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		payload = string(b)
	}
	_, err := s.db.Exec(
		`INSERT INTO events (event_id, session_id, event_type, created_at, payload_json)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.SessionID, string(ev.Type), ev.At.Format(time.RFC3339Nano), payload,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// #endregion append-event

// #region load

// LoadSession reads a session with its full ordered event list.
func (s *Store) LoadSession(id string) (*Session, error) {
	var sess Session
	var startedStr string
	var endedStr sql.NullString
	var baselineJSON string
	var summaryJSON sql.NullString

	err := s.db.QueryRow(
		`SELECT session_id, started_at, ended_at, baseline_json, summary_json
		 FROM sessions WHERE session_id = ?`, id,
	).Scan(&sess.ID, &startedStr, &endedStr, &baselineJSON, &summaryJSON)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	sess.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	if endedStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, endedStr.String)
		sess.EndedAt = &t
	}
	if err := json.Unmarshal([]byte(baselineJSON), &sess.Baseline); err != nil {
		return nil, fmt.Errorf("unmarshal baseline: %w", err)
	}
	sess.Counters = make(map[EventType]int)

	rows, err := s.db.Query(
		`SELECT event_id, event_type, created_at, payload_json
		 FROM events WHERE session_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev Event
		var typ, createdStr string
		var payloadJSON sql.NullString
		if err := rows.Scan(&ev.ID, &typ, &createdStr, &payloadJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.SessionID = id
		ev.Type = EventType(typ)
		ev.At, _ = time.Parse(time.RFC3339Nano, createdStr)
		if payloadJSON.Valid {
			if err := json.Unmarshal([]byte(payloadJSON.String), &ev.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload: %w", err)
			}
		}
		sess.Events = append(sess.Events, ev)
		sess.Counters[ev.Type]++
	}
	return &sess, rows.Err()
}

// SessionInfo is one row of the session index.
type SessionInfo struct {
	ID         string
	StartedAt  time.Time
	EndedAt    *time.Time
	EventCount int
}

// ListSessions returns the most recent sessions, newest first.
func (s *Store) ListSessions(limit int) ([]SessionInfo, error) {
	rows, err := s.db.Query(
		`SELECT s.session_id, s.started_at, s.ended_at, COUNT(e.seq)
		 FROM sessions s LEFT JOIN events e ON e.session_id = s.session_id
		 GROUP BY s.session_id ORDER BY s.started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var infos []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var startedStr string
		var endedStr sql.NullString
		if err := rows.Scan(&info.ID, &startedStr, &endedStr, &info.EventCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
		if endedStr.Valid {
			t, _ := time.Parse(time.RFC3339Nano, endedStr.String)
			info.EndedAt = &t
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// #endregion load
