package mockapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func (s *SQLiteStore) CreateApplication(rec *AppRecord) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	// Idempotent: re-registering an app key refreshes its secret and name.
	_, err := s.DB.Exec(
		`INSERT OR REPLACE INTO applications (app_key, app_secret, name, created_at)
		 VALUES (?, ?, ?, ?)`,
		rec.AppKey, rec.AppSecret, rec.Name, rec.CreatedAt,
	)
	return err
}

func (s *SQLiteStore) GetApplication(appKey string) (*AppRecord, error) {
	row := s.DB.QueryRow(
		`SELECT app_key, app_secret, name, created_at
		 FROM applications WHERE app_key = ?`, appKey,
	)

	var rec AppRecord
	if err := row.Scan(&rec.AppKey, &rec.AppSecret, &rec.Name, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) CreateConsumer(rec *ConsumerRecord) error {
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	rulesJSON, _ := json.Marshal(rec.Rules)

	_, err := s.DB.Exec(
		`INSERT INTO consumers (consumer_key, app_key, rules_json, status, created_at, last_used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ConsumerKey, rec.AppKey, string(rulesJSON), rec.Status, rec.CreatedAt, rec.LastUsed,
	)
	return err
}

func (s *SQLiteStore) GetConsumer(consumerKey string) (*ConsumerRecord, error) {
	row := s.DB.QueryRow(
		`SELECT consumer_key, app_key, rules_json, status, created_at, last_used
		 FROM consumers WHERE consumer_key = ?`, consumerKey,
	)

	var rec ConsumerRecord
	var rulesJSON string
	if err := row.Scan(&rec.ConsumerKey, &rec.AppKey, &rulesJSON, &rec.Status, &rec.CreatedAt, &rec.LastUsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	_ = json.Unmarshal([]byte(rulesJSON), &rec.Rules)
	return &rec, nil
}

func (s *SQLiteStore) ValidateConsumer(consumerKey string) error {
	_, err := s.DB.Exec(
		`UPDATE consumers SET status=? WHERE consumer_key=?`,
		ConsumerValidated, consumerKey,
	)
	return err
}

func (s *SQLiteStore) TouchConsumer(consumerKey string, when int64) error {
	_, err := s.DB.Exec(
		`UPDATE consumers SET last_used=? WHERE consumer_key=?`,
		when, consumerKey,
	)
	return err
}

func (s *SQLiteStore) DeleteConsumer(consumerKey string) error {
	_, err := s.DB.Exec(`DELETE FROM consumers WHERE consumer_key=?`, consumerKey)
	return err
}
