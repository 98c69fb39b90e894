//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Fixed fleet fixture IDs so tests can reference vehicles without lookups.
var (
	SprinterID = uuid.MustParse("11111111-1111-1111-1111-111111111111") // capacity 8
	CoachID    = uuid.MustParse("22222222-2222-2222-2222-222222222222") // capacity 14

	RidgeWineryID  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	ValleyWineryID = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func CreateTestVehicle(t *testing.T, db DBLike, name string, capacity int) uuid.UUID {
	t.Helper()

	vehicleID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO vehicles (id, name, capacity, is_active) VALUES ($1, $2, $3, true)",
		vehicleID, name, capacity)
	require.NoError(t, err)
	return vehicleID
}

func CreateTestWinery(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	wineryID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO wineries (id, name, is_active) VALUES ($1, $2, true)",
		wineryID, name)
	require.NoError(t, err)
	return wineryID
}

// inserts the fixed fleet and winery reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO vehicles (id, name, capacity, is_active) VALUES
		    ($1, 'Sprinter 8', 8, true),
		    ($2, 'Coach 14', 14, true)
		ON CONFLICT (id) DO NOTHING;
	`, SprinterID, CoachID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO wineries (id, name, region, is_active) VALUES
		    ($1, 'Ridge Line Cellars', 'North Valley', true),
		    ($2, 'Valley Floor Estate', 'South Valley', true)
		ON CONFLICT (id) DO NOTHING;
	`, RidgeWineryID, ValleyWineryID)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
