package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
	"github.com/go-sql-driver/mysql"

	"xtest/internal/config"
	"xtest/internal/domain"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// MySQLStorage keeps one row per run in a MySQL table
type MySQLStorage struct {
	db    *sql.DB
	table string
	log   log.Logger
	ready bool
}

// NewMySQLStorage opens a connection pool for cfg.ResultsDSN. No connection is
// made until the first Save or Load.
func NewMySQLStorage(cfg *config.Config, logger log.Logger) (*MySQLStorage, error) {
	if logger == nil {
		logger = log.NewLogger(log.DiscardHandler())
	}
	table := cfg.ResultsTable
	if table == "" {
		table = config.DefaultResultsTable
	}
	if !isValidTableName(table) {
		return nil, fmt.Errorf("invalid results table name: %q", table)
	}

	dsn, err := mysql.ParseDSN(cfg.ResultsDSN)
	if err != nil {
		return nil, fmt.Errorf("parse results DSN: %w", err)
	}
	if dsn.DBName == "" {
		return nil, errors.New("results DSN does not name a database")
	}
	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}

	return &MySQLStorage{
		db:    sql.OpenDB(connector),
		table: table,
		log:   logger.New("component", "storage", "table", table, "addr", dsn.Addr, "db", dsn.DBName),
	}, nil
}

// Close releases the connection pool
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

// Save inserts output as a new row, creating the table first if needed
func (s *MySQLStorage) Save(output *domain.RunOutput) error {
	if err := s.ensureTable(); err != nil {
		return err
	}
	details, err := json.Marshal(output.Details)
	if err != nil {
		return fmt.Errorf("marshal details: %w", err)
	}

	m := output.Meta
	res, err := s.db.Exec(insertSQL(s.table),
		m.Total, m.Passed, m.Failed, m.Skipped, m.Aborted,
		m.Duration, m.DurationSeconds, m.Repeat, m.AllPassed, m.Timestamp, string(details))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		s.log.Info("Saved run", "id", id, "total", m.Total, "failed", m.Failed, "aborted", m.Aborted)
	}
	return nil
}

// Load returns the most recently saved run
func (s *MySQLStorage) Load() (*domain.RunOutput, error) {
	if err := s.ensureTable(); err != nil {
		return nil, err
	}

	var (
		output  domain.RunOutput
		details string
	)
	m := &output.Meta
	err := s.db.QueryRow(selectLatestSQL(s.table)).Scan(
		&m.Total, &m.Passed, &m.Failed, &m.Skipped, &m.Aborted,
		&m.Duration, &m.DurationSeconds, &m.Repeat, &m.AllPassed, &m.Timestamp, &details)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	if err := json.Unmarshal([]byte(details), &output.Details); err != nil {
		return nil, fmt.Errorf("parse details: %w", err)
	}
	return &output, nil
}

func (s *MySQLStorage) ensureTable() error {
	if s.ready {
		return nil
	}
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}
	if _, err := s.db.Exec(createTableSQL(s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	s.log.Debug("Results table ready")
	s.ready = true
	return nil
}

// isValidTableName only accepts plain identifiers so the name can be quoted safely
func isValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

func createTableSQL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"id BIGINT AUTO_INCREMENT PRIMARY KEY, "+
		"total INT NOT NULL, "+
		"passed INT NOT NULL, "+
		"failed INT NOT NULL, "+
		"skipped INT NOT NULL, "+
		"aborted INT NOT NULL, "+
		"duration VARCHAR(64) NOT NULL, "+
		"duration_seconds DOUBLE NOT NULL, "+
		"repeat_count INT NOT NULL, "+
		"all_passed BOOL NOT NULL, "+
		"run_timestamp VARCHAR(64) NOT NULL, "+
		"details LONGTEXT NOT NULL, "+
		"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)", table)
}

func insertSQL(table string) string {
	return fmt.Sprintf("INSERT INTO `%s` "+
		"(total, passed, failed, skipped, aborted, duration, duration_seconds, repeat_count, all_passed, run_timestamp, details) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", table)
}

func selectLatestSQL(table string) string {
	return fmt.Sprintf("SELECT total, passed, failed, skipped, aborted, duration, duration_seconds, "+
		"repeat_count, all_passed, run_timestamp, details FROM `%s` ORDER BY id DESC LIMIT 1", table)
}
