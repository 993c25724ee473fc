package store

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func textParam(v string) pgtype.Text {
	return pgtype.Text{String: v, Valid: true}
}

func timestamptzParam(v time.Time) pgtype.Timestamptz {
	if v.IsZero() {
		v = time.Now().UTC()
	}
	return pgtype.Timestamptz{Time: v, Valid: true}
}
