// Package dbtest starts a throwaway Postgres for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emilythestrangee/stackit/backend/internal/config"
)

// StartPostgres runs a postgres container and returns its connection settings
// and a teardown func.
func StartPostgres(ctx context.Context) (config.DBConfig, func(context.Context) error, error) {
	var (
		dbName = "stackit"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return config.DBConfig{}, nil, fmt.Errorf("start postgres container: %w", err)
	}

	teardown := func(ctx context.Context) error {
		return testcontainers.TerminateContainer(dbContainer)
	}

	host, err := dbContainer.Host(ctx)
	if err != nil {
		_ = teardown(ctx)
		return config.DBConfig{}, nil, err
	}

	port, err := dbContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = teardown(ctx)
		return config.DBConfig{}, nil, err
	}

	cfg := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     dbUser,
		Password: dbPwd,
		Name:     dbName,
		SSLMode:  "disable",
	}
	return cfg, teardown, nil
}
