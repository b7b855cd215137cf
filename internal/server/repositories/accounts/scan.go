package accounts

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type scanner interface {
	Scan(dest ...any) error
}

// collect drains rows produced by a SELECT of accountColumns.
func collect(rows *sql.Rows, scan func(scanner) (*models.Account, error)) ([]*models.Account, error) {
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
