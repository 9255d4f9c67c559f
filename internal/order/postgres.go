package order

import (
	"database/sql"
	"time"

	apperrors "github.com/santan-uz/santan-bot/internal/errors"
)

// PostgresAppender appends order rows to the orders table.
type PostgresAppender struct {
	db *sql.DB
}

// NewPostgresAppender constructs a PostgresAppender over db.
func NewPostgresAppender(db *sql.DB) *PostgresAppender {
	return &PostgresAppender{db: db}
}

// Append inserts rec into the orders table.
func (a *PostgresAppender) Append(rec Record) error {
	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	const query = `
		INSERT INTO orders
			(created_at, user_id, username, name, phone, address, location, items, note, total, status)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := a.db.Exec(query,
		ts,
		rec.UserID,
		rec.Username,
		rec.Name,
		rec.Phone,
		rec.Address,
		rec.Location,
		rec.Items,
		rec.Note,
		rec.Total,
		rec.Status,
	)
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}

	return nil
}
