package repository

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/cleanup"
)

// SlotsRepository persists independently-serialized JSON documents under
// fixed names:
//
//	CREATE TABLE slots (
//	    name       TEXT PRIMARY KEY,
//	    doc        JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
// One slot per entity collection; a partial write of one slot can never
// corrupt another.
type SlotsRepository struct {
	conn PgConnection
}

func NewSlotsRepo(cfg DBConfig) *SlotsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for slotsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for slotsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &SlotsRepository{
		conn: pool,
	}
}

func NewSlotsRepoWithConn(conn PgConnection) *SlotsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for slotsRepo: " + err.Error())
	}
	return &SlotsRepository{
		conn: conn,
	}
}

func (sr *SlotsRepository) Load(ctx context.Context, name string) ([]byte, error) {
	var doc []byte
	row := sr.conn.QueryRow(ctx, `SELECT doc FROM slots WHERE name = $1;`, name)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrSlotNotFound
		}
		return nil, errors.New("loading slot error: " + err.Error())
	}
	return doc, nil
}

func (sr *SlotsRepository) Save(ctx context.Context, name string, doc []byte) error {
	_, err := sr.conn.Exec(ctx,
		`INSERT INTO slots (name, doc, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW();`,
		name,
		doc,
	)
	if err != nil {
		return errors.New("saving slot error: " + err.Error())
	}
	return nil
}

func (sr *SlotsRepository) Delete(ctx context.Context, name string) error {
	_, err := sr.conn.Exec(ctx, `DELETE FROM slots WHERE name = $1;`, name)
	if err != nil {
		return errors.New("deleting slot error: " + err.Error())
	}
	return nil
}

func (sr *SlotsRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := sr.conn.Query(ctx, `SELECT name FROM slots ORDER BY name;`)
	if err != nil {
		return nil, errors.New("listing slots error: " + err.Error())
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, errors.New("slot name parsing error: " + err.Error())
		}
		names = append(names, name)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return names, nil
}
