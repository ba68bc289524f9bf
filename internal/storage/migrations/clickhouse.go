package migrations

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	chstore "goz-scoring/internal/storage/clickhouse"
)

// ErrBadDatabase is returned when the ClickHouse DSN names no usable database.
var ErrBadDatabase = errors.New("clickhouse dsn: bad database name")

var databaseName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RunClickhouseMigrations creates the results database named in dsn if
// needed, then applies every embedded file statement by statement.
// The returned connection points at the results database.
func RunClickhouseMigrations(ctx context.Context, dsn string) (*chstore.Conn, error) {
	db, err := databaseFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	if err := ensureDatabase(ctx, dsn, db); err != nil {
		return nil, err
	}

	migrations, err := ClickhouseMigrations()
	if err != nil {
		return nil, err
	}

	conn, err := chstore.NewConnWithDatabase(ctx, dsn, db)
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse %s: %w", db, err)
	}
	if err := applyClickhouse(ctx, conn, migrations); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// ensureDatabase runs CREATE DATABASE on a connection to the server default.
func ensureDatabase(ctx context.Context, dsn, db string) error {
	admin, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return fmt.Errorf("connect clickhouse server: %w", err)
	}
	defer admin.Close()

	if err := admin.Exec(ctx, "CREATE DATABASE IF NOT EXISTS `"+db+"`"); err != nil {
		return fmt.Errorf("create database %s: %w", db, err)
	}
	return nil
}

// applyClickhouse runs each statement separately; the native protocol
// rejects multi-statement Exec.
func applyClickhouse(ctx context.Context, conn *chstore.Conn, migrations []Migration) error {
	for _, m := range migrations {
		stmts, err := m.Statements()
		if err != nil {
			return err
		}
		for i, stmt := range stmts {
			if err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s statement %d: %w", m.Name, i+1, err)
			}
		}
	}
	return nil
}

// Statements splits the file on semicolons after dropping "--" comment
// lines. Files must not put a semicolon inside a quoted literal.
func (m Migration) Statements() ([]string, error) {
	if err := checkLiterals(m.SQL); err != nil {
		return nil, fmt.Errorf("migration %s: %w", m.Name, err)
	}

	var kept []string
	for _, line := range strings.Split(m.SQL, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

// checkLiterals fails on a semicolon inside a single-quoted literal.
// Doubled quotes ('') are escapes.
func checkLiterals(sql string) error {
	quoted := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			if quoted && i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			quoted = !quoted
		case ';':
			if quoted {
				return fmt.Errorf("semicolon inside string literal at offset %d", i)
			}
		}
	}
	return nil
}

func databaseFromDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	db := strings.TrimPrefix(u.Path, "/")
	if !databaseName.MatchString(db) {
		return "", fmt.Errorf("%w: %q", ErrBadDatabase, db)
	}
	return db, nil
}
