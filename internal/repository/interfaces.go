package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type SlotsRepositoryI interface {
	// Reads one named slot. Returns ErrSlotNotFound when the slot was never written
	Load(ctx context.Context, name string) ([]byte, error)
	// Writes the full document for a named slot (insert or replace)
	Save(ctx context.Context, name string, doc []byte) error
	// Removes a slot; clearing an empty slot is not an error
	Delete(ctx context.Context, name string) error
	// Lists every stored slot name, used by the wipe-all operation
	Names(ctx context.Context) ([]string, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
