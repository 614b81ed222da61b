package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Membership store as seen by the bot. User ids are the snowflakes
// discord assigns, carried as opaque strings to avoid precision loss.
// Implementations must be safe for concurrent use and must serialize
// concurrent calls for the same (user, group) pair so that MemberOK and
// MemberNoChange reflect a consistent history
type Store interface {
	AddGroup(ctx context.Context, name string) (GroupOutcome, error)
	AddMember(ctx context.Context, userID string, group string) (MemberOutcome, error)
	RemoveMember(ctx context.Context, userID string, group string) (MemberOutcome, error)
}

// Postgres-backed store. The outcome protocol lives in SQL functions
// so that the check-and-insert is atomic on the server side; the pool
// gives the required per-row serialization through the primary key
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect to postgres and verify the connection with a ping
func Connect(ctx context.Context, dsn string) (*Postgres, error) {

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("could not parse pool config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("could not create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (pg *Postgres) Close() {
	pg.pool.Close()
}

func (pg *Postgres) AddGroup(ctx context.Context, name string) (GroupOutcome, error) {

	var code int
	if err := pg.pool.QueryRow(ctx, `SELECT add_mm_group($1)`, name).Scan(&code); err != nil {
		return 0, fmt.Errorf("add_mm_group: %w", err)
	}
	return GroupOutcomeFromCode("add_mm_group", code)
}

func (pg *Postgres) AddMember(ctx context.Context, userID string, group string) (MemberOutcome, error) {

	var code int
	if err := pg.pool.QueryRow(ctx, `SELECT add_mm_member($1, $2)`, userID, group).Scan(&code); err != nil {
		// A transport failure means nothing was persisted
		return MemberStoreFailure, fmt.Errorf("add_mm_member: %w", err)
	}
	return MemberOutcomeFromCode("add_mm_member", code)
}

func (pg *Postgres) RemoveMember(ctx context.Context, userID string, group string) (MemberOutcome, error) {

	var code int
	if err := pg.pool.QueryRow(ctx, `SELECT remove_mm_member($1, $2)`, userID, group).Scan(&code); err != nil {
		return MemberStoreFailure, fmt.Errorf("remove_mm_member: %w", err)
	}
	return MemberOutcomeFromCode("remove_mm_member", code)
}
