// Command admin agrupa las tareas de operación que no tienen endpoint HTTP:
// usuarios, taxonomía y migraciones.
//
//	admin create-user -username alice -password s3cret123
//	admin add-type -name 貓貓
//	admin add-species -type <id> -name 波斯貓
//	admin migrate
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"pet-records/internal/adapters/storage"
	"pet-records/internal/adapters/storage/postgres"
	"pet-records/internal/domain/accounts"
	"pet-records/internal/domain/taxonomy"
	"pet-records/internal/platform/config"
	"pet-records/internal/platform/logger"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	switch {
	case errors.Is(err, errUsage):
		usage(os.Stderr)
		os.Exit(2)
	case err != nil:
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: admin <command> [flags]

commands:
  create-user     -username U -password P
  delete-user     -username U
  add-type        -name N
  add-species     -type ID -name N
  delete-type     -id ID
  delete-species  -id ID
  seed-taxonomy
  migrate
`)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App + "-admin",
	})
	defer func() { _ = log.Sync() }()

	if cmd == "migrate" {
		return migrate(ctx, cfg, out)
	}

	if cfg.DBDSN == "" {
		log.Warn("DB_DSN is empty; changes go to an in-memory store and are lost on exit", nil)
	}
	repos, err := storage.Open(ctx, cfg.DBDSN, false)
	if err != nil {
		return err
	}
	defer func() { _ = repos.Close() }()

	users := accounts.NewService(repos.Users, accounts.NewPasswords(accounts.DefaultCost), nil)
	tax := taxonomy.NewService(repos.Taxonomy)

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)

	switch cmd {
	case "create-user":
		username := fs.String("username", "", "nombre de usuario")
		password := fs.String("password", "", "contraseña (mínimo 8 caracteres)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		u, err := users.CreateUser(ctx, *username, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "user %s created (id=%s)\n", u.Username, u.ID)

	case "delete-user":
		username := fs.String("username", "", "nombre de usuario")
		if err := fs.Parse(args); err != nil {
			return err
		}
		u, err := users.FindByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if err := users.DeleteUser(ctx, u.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "user %s deleted\n", u.Username)

	case "add-type":
		name := fs.String("name", "", "nombre del tipo")
		if err := fs.Parse(args); err != nil {
			return err
		}
		t, err := tax.CreateType(ctx, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pet type %s created (id=%s)\n", t.Name, t.ID)

	case "add-species":
		typeID := fs.String("type", "", "ID del tipo")
		name := fs.String("name", "", "nombre de la especie")
		if err := fs.Parse(args); err != nil {
			return err
		}
		sp, err := tax.CreateSpecies(ctx, *typeID, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "species %s created (id=%s)\n", sp.Name, sp.ID)

	case "delete-type", "delete-species":
		id := fs.String("id", "", "ID a borrar")
		if err := fs.Parse(args); err != nil {
			return err
		}
		del := tax.DeleteType
		if cmd == "delete-species" {
			del = tax.DeleteSpecies
		}
		if err := del(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", cmd, *id)

	case "seed-taxonomy":
		n, err := tax.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "taxonomy seeded: %d created\n", n)

	default:
		return errUsage
	}
	return nil
}

func migrate(ctx context.Context, cfg config.Config, out io.Writer) error {
	if cfg.DBDSN == "" {
		return errors.New("migrate requires DB_DSN")
	}
	db, err := postgres.Open(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := postgres.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "schema up to date")
	}
	for _, v := range applied {
		fmt.Fprintln(out, "applied", v)
	}
	return nil
}
