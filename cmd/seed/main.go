// Command seed prepares an ONG Hub database: it applies the embedded schema,
// loads reference data from a YAML file and issues development tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	appctx "onghub/internal/core/context"
	"onghub/internal/domain/auth"
	"onghub/internal/infrastructure/storage/postgres"
	"onghub/internal/infrastructure/storage/postgres/nomenclature_repo"
	"onghub/pkg/logger"
)

var (
	version = "v0.0.2"
	cli     struct {
		Migrate      MigrateCmd      `cmd:"" help:"Apply the embedded database schema"`
		Nomenclature NomenclatureCmd `cmd:"" help:"Load reference data from a YAML file"`
		Token        TokenCmd        `cmd:"" help:"Issue a bearer token for local testing"`
		Debug        bool            `help:"Enable debug logging."`
		Version      kong.VersionFlag
	}
)

// Globals are shared by every command.
type Globals struct {
	Log *logger.Logger
}

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Description("ONG Hub database tooling."),
		kong.Vars{"version": version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	level := "info"
	if cli.Debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Development: true, Service: "onghub-seed"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	err = cmd.Run(&Globals{Log: log})
	cmd.FatalIfErrorf(err)
}

// DatabaseFlags locate the database.
type DatabaseFlags struct {
	DatabaseURL    string        `help:"PostgreSQL DSN" required:"" env:"DATABASE_URL"`
	ConnectTimeout time.Duration `help:"How long to retry the first connection" default:"30s" env:"DB_CONNECT_MAX_ELAPSED"`
}

func (f DatabaseFlags) connect(ctx context.Context) (*postgres.Pool, error) {
	cfg := postgres.DefaultPoolConfig(f.DatabaseURL)
	cfg.MaxConns = 4
	cfg.ConnectMaxElapsed = f.ConnectTimeout
	return postgres.Connect(ctx, cfg)
}

// MigrateCmd applies pending migrations.
type MigrateCmd struct {
	DatabaseFlags `embed:""`
}

func (c *MigrateCmd) Run(ctx context.Context, g *Globals) error {
	ctx = logger.WithLogger(ctx, g.Log)
	pool, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.RunMigrations(ctx, pool)
}

// NomenclatureCmd upserts a reference dataset.
type NomenclatureCmd struct {
	DatabaseFlags `embed:""`
	File    string `arg:"" help:"YAML dataset" type:"existingfile"`
	Migrate bool   `help:"Apply migrations first."`
	DryRun  bool   `help:"Validate the file without writing."`
}

func (c *NomenclatureCmd) Run(ctx context.Context, g *Globals) error {
	ctx = logger.WithLogger(ctx, g.Log)

	data, err := loadDataset(c.File)
	if err != nil {
		return err
	}
	counts := data.Counts()
	g.Log.Infow("dataset loaded", "file", c.File, "rows", counts)
	if c.DryRun {
		return nil
	}

	pool, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if c.Migrate {
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return err
		}
	}

	repo := nomenclature_repo.New(postgres.NewTxManager(pool))
	if err := repo.Seed(ctx, data); err != nil {
		return fmt.Errorf("seed nomenclature: %w", err)
	}
	g.Log.Info("nomenclature seeded")
	return nil
}

// TokenCmd prints a signed bearer token.
type TokenCmd struct {
	UserID         string        `help:"Subject user id" required:""`
	Email          string        `help:"User email"`
	Role           string        `help:"Role claim" default:"ADMIN" enum:"SUPER_ADMIN,ADMIN,EMPLOYEE"`
	OrganizationID string        `help:"Organization the user belongs to"`
	TTL            time.Duration `help:"Token lifetime" default:"1h"`
	SigningKey     string        `help:"JWT signing key" required:"" env:"JWT_SECRET"`
}

func (c *TokenCmd) Run(ctx context.Context) error {
	cfg := auth.DefaultJWTConfig(c.SigningKey)
	cfg.AccessTokenTTL = c.TTL

	token, _, err := auth.NewJWTService(cfg).GenerateAccessToken(appctx.UserContext{
		UserID:         c.UserID,
		Email:          c.Email,
		Role:           c.Role,
		OrganizationID: c.OrganizationID,
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
