package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trailcase/geohunt/internal/hunt"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var blobColumns = map[string]string{
	"session": "session",
	"trail":   "trail",
}

func blobColumn(key string) (string, error) {
	col, ok := blobColumns[key]
	if !ok {
		return "", fmt.Errorf("unknown blob key %q", key)
	}
	return col, nil
}

func (s *SQLiteStore) CreateGame(ctx context.Context, teamName string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO games (token, team_name)
		VALUES (lower(hex(randomblob(16))), ?)
		RETURNING token
	`, teamName).Scan(&token)
	return token, err
}

func (s *SQLiteStore) GameByToken(ctx context.Context, token string) (gameRecord, error) {
	var rec gameRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT token, team_name FROM games WHERE token = ?
	`, token).Scan(&rec.Token, &rec.TeamName)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) GameBlob(ctx context.Context, token, key string) (string, error) {
	col, err := blobColumn(key)
	if err != nil {
		return "", err
	}

	var value sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT `+col+` FROM games WHERE token = ?`, token,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return "", ErrNotFound
	}
	return value.String, err
}

func (s *SQLiteStore) SetGameBlob(ctx context.Context, token, key, value string) error {
	col, err := blobColumn(key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE games SET `+col+` = ? WHERE token = ?`, value, token,
	)
	return err
}

func (s *SQLiteStore) RemoveGameBlob(ctx context.Context, token, key string) error {
	col, err := blobColumn(key)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE games SET `+col+` = NULL WHERE token = ?`, token,
	)
	return err
}

func (s *SQLiteStore) SubmitResult(ctx context.Context, sum hunt.Summary) error {
	bonus := 0
	if sum.BonusCompleted {
		bonus = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (team_name, time_sec, hints_used, bonus_completed)
		VALUES (?, ?, ?, ?)
	`, sum.TeamName, sum.TimeSec, sum.HintsUsed, bonus)
	return err
}

func (s *SQLiteStore) TopResults(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_name, time_sec, hints_used, bonus_completed, created_at
		FROM leaderboard
		ORDER BY time_sec ASC, created_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		var bonus int
		if err := rows.Scan(&e.TeamName, &e.TimeSec, &e.HintsUsed, &bonus, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.BonusCompleted = bonus == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ActiveCase(ctx context.Context) (string, []byte, error) {
	var name, doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, doc FROM cases WHERE active = 1
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&name, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNotFound
	}
	return name, []byte(doc), err
}

// SaveCase stores a new case document and makes it the active one.
func (s *SQLiteStore) SaveCase(ctx context.Context, name string, doc []byte) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE cases SET active = 0 WHERE active = 1`); err != nil {
		return "", err
	}

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO cases (name, doc, active)
		VALUES (?, ?, 1)
		RETURNING id
	`, name, string(doc)).Scan(&id)
	if err != nil {
		return "", err
	}

	return id, tx.Commit()
}

func (s *SQLiteStore) ListCases(ctx context.Context) ([]CaseSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, active, doc, created_at
		FROM cases
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cases := []CaseSummary{}
	for rows.Next() {
		var c CaseSummary
		var active int
		var doc string
		if err := rows.Scan(&c.ID, &c.Name, &active, &doc, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Active = active == 1

		var partial struct {
			Stages []json.RawMessage `json:"stages"`
		}
		json.Unmarshal([]byte(doc), &partial)
		c.StageCount = len(partial.Stages)

		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *SQLiteStore) HasOperators(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operators`).Scan(&count)
	return count > 0, err
}

func (s *SQLiteStore) CreateOperator(ctx context.Context, name, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operators (name, password_hash) VALUES (?, ?)
	`, name, passwordHash)
	return err
}

func (s *SQLiteStore) OperatorByName(ctx context.Context, name string) (string, string, error) {
	var id, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM operators WHERE name = ?
	`, name).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateOperatorSession(ctx context.Context, operatorID string) (string, error) {
	var sessionID string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO operator_sessions (operator_id)
		VALUES (?)
		RETURNING id
	`, operatorID).Scan(&sessionID)
	return sessionID, err
}

func (s *SQLiteStore) OperatorFromSession(ctx context.Context, sessionID string) (operatorSession, error) {
	var sess operatorSession
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.name
		FROM operator_sessions s
		JOIN operators o ON o.id = s.operator_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.OperatorID, &sess.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return operatorSession{}, ErrNotFound
	}
	return sess, err
}

func (s *SQLiteStore) DeleteOperatorSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM operator_sessions WHERE id = ?`, sessionID)
	return err
}
