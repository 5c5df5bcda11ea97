package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"floatplan/internal/model"
)

// startPostgres spins up a throwaway postgres container and returns a migrated
// repository. Skips when no container runtime is reachable so the suite stays
// runnable on machines without Docker.
func startPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	// testcontainers panics (rather than returning an error) when no container
	// runtime can be found at all; fold that into the same skip path.
	container, err := func() (c testcontainers.Container, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("container runtime unavailable: %v", r)
			}
		}()
		return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	}()
	if err != nil {
		t.Skipf("skipping: could not start postgres container: %s", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("could not stop postgres container: %s", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"
	repo, err := NewPostgres(ctx, dsn, 4, 1)
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	repo := startPostgres(t)
	ctx := context.Background()

	t.Run("opportunity round trip", func(t *testing.T) {
		created, err := repo.CreateOpportunity(ctx, model.Opportunity{
			Name:              "Wholesale lot",
			Category:          "arbitrage",
			InitialInvestment: 300_000,
			ExpectedReturn:    380_000,
			TurnaroundDays:    30,
			TimeRequiredHours: 20,
			HourlyRate:        5_000,
			RiskFactor:        0.25,
			CertaintyScore:    0.7,
			LiquidationRisk:   float64Of(0.4),
			Impact:            7, Confidence: 6, Ease: 4,
		})
		require.NoError(t, err)

		got, err := repo.GetOpportunity(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Wholesale lot", got.Name)
		require.NotNil(t, got.LiquidationRisk)
		assert.InDelta(t, 0.4, *got.LiquidationRisk, 1e-12)

		got.ExpectedReturn = 400_000
		updated, err := repo.UpdateOpportunity(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, int64(400_000), updated.ExpectedReturn)

		require.NoError(t, repo.DeleteOpportunity(ctx, created.ID))
		_, err = repo.GetOpportunity(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("account cascade", func(t *testing.T) {
		card, err := repo.CreateAccount(ctx, model.Account{
			Name: "Card", Type: model.AccountCreditCard,
			CreditLimit: 1_000_000, AvailableCredit: 900_000, APRPercent: 22.5,
		})
		require.NoError(t, err)

		_, err = repo.CreateCreditCycle(ctx, model.CreditCycle{
			AccountID:      card.ID,
			StatementStart: model.MustDate("2026-08-01"),
			StatementEnd:   model.MustDate("2026-08-31"),
			DueDate:        model.MustDate("2026-09-25"),
		})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteAccount(ctx, card.ID))

		cycles, err := repo.ListCreditCycles(ctx, card.ID)
		require.NoError(t, err)
		assert.Empty(t, cycles)
	})

	t.Run("cashflow range and snapshot", func(t *testing.T) {
		_, err := repo.CreateCashflowEvent(ctx, model.CashflowEvent{
			Amount: 75_000, Kind: model.CashflowInflow,
			Date: model.MustDate("2026-09-05"), Description: "retainer",
		})
		require.NoError(t, err)

		events, err := repo.ListCashflowEvents(ctx,
			model.MustDate("2026-09-01"), model.MustDate("2026-09-30"))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, model.MustDate("2026-09-05"), events[0].Date)

		snap, err := LoadSnapshot(ctx, repo,
			model.MustDate("2026-09-01"), model.MustDate("2026-09-30"))
		require.NoError(t, err)
		assert.Len(t, snap.Events, 1)
	})
}
