package postgres

import (
	"context"
	"fmt"

	"merchant-ledger/config"
	"merchant-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool is the subset of pgxpool.Pool the repositories use. pgxmock's
// PgxPoolIface satisfies it, which keeps the repositories testable without a
// live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool creates a PostgreSQL connection pool using pgx.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", cfg.MaxConns).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

// Addresses, identities and token ids are fixed 32-byte values in the domain
// and BYTEA columns in the schema. These helpers bridge the two.

func addressFromBytes(b []byte) domain.Address {
	var addr domain.Address
	copy(addr[:], b)
	return addr
}

func identityFromBytes(b []byte) domain.Identity {
	var id domain.Identity
	copy(id[:], b)
	return id
}

func tokensToBytes(tokens []domain.TokenID) [][]byte {
	out := make([][]byte, len(tokens))
	for i, tok := range tokens {
		t := tok
		out[i] = t[:]
	}
	return out
}

func tokensFromBytes(raw [][]byte) []domain.TokenID {
	tokens := make([]domain.TokenID, len(raw))
	for i, b := range raw {
		copy(tokens[i][:], b)
	}
	return tokens
}
