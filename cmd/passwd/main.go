// Command passwd sets a user's password from the terminal.
//
//	passwd -email user@example.com [-c config.json] [-d dsn]
//
// Storage settings are read exactly like the server reads them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/prompt"
	"github.com/dmitrijs2005/contactbook/internal/server"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	email := fs.String("email", "", "email of the account to update")
	_ = fs.Parse(flagx.Filter(os.Args[1:], []string{"-email", "--email"}))

	if *email == "" {
		fs.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), config.LoadConfig(), *email, os.Stdout); err != nil {
		log.Fatalf("passwd: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, email string, w io.Writer) error {
	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	b, err := server.NewBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := b.Users.FindByEmail(ctx, email); err != nil {
		return fmt.Errorf("lookup %s: %w", email, err)
	}

	password, err := prompt.NewPassword(w)
	if err != nil {
		return err
	}

	if err := b.Users.ChangePassword(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintf(w, "Password for %s updated.\n", email)
	return nil
}
