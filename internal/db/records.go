package db

import (
	"database/sql"
	"fmt"
)

// PasswordRow represents one stored credential keyed by domain. Password
// holds the opaque encrypted token exactly as produced by the crypto layer.
type PasswordRow struct {
	ID        int64
	Domain    string
	Password  string
	Expires   bool
	CreatedAt string
}

// InsertPassword stores a new row and returns its database ID.
func (d *DB) InsertPassword(domain, token string, expires bool) (int64, error) {
	if d == nil || d.sql == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	res, err := d.sql.Exec(
		`INSERT INTO passwords (domain, password, expires) VALUES (?, ?, ?)`,
		domain, token, expires,
	)
	if err != nil {
		return 0, fmt.Errorf("insert password: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fetch insert id: %w", err)
	}
	return id, nil
}

// GetPasswordByDomain returns the row for a domain, or sql.ErrNoRows.
func (d *DB) GetPasswordByDomain(domain string) (*PasswordRow, error) {
	if d == nil || d.sql == nil {
		return nil, fmt.Errorf("database handle is nil")
	}

	var r PasswordRow
	err := d.sql.QueryRow(
		`SELECT id, domain, password, expires, created_at
		 FROM passwords
		 WHERE domain = ?`,
		domain,
	).Scan(&r.ID, &r.Domain, &r.Password, &r.Expires, &r.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("select password: %w", err)
	}
	return &r, nil
}

// ListDomains returns all stored domains in lexical order.
func (d *DB) ListDomains() ([]string, error) {
	if d == nil || d.sql == nil {
		return nil, fmt.Errorf("database handle is nil")
	}

	rows, err := d.sql.Query(`SELECT domain FROM passwords ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("select domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate domains: %w", err)
	}
	return domains, nil
}

// CountPasswords returns the number of stored rows.
func (d *DB) CountPasswords() (int, error) {
	if d == nil || d.sql == nil {
		return 0, fmt.Errorf("database handle is nil")
	}

	var n int
	if err := d.sql.QueryRow(`SELECT COUNT(*) FROM passwords`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count passwords: %w", err)
	}
	return n, nil
}

// DeletePasswordByDomain removes the row for a domain.
// It returns sql.ErrNoRows if nothing was deleted.
func (d *DB) DeletePasswordByDomain(domain string) error {
	if d == nil || d.sql == nil {
		return fmt.Errorf("database handle is nil")
	}

	res, err := d.sql.Exec(`DELETE FROM passwords WHERE domain = ?`, domain)
	if err != nil {
		return fmt.Errorf("delete password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
