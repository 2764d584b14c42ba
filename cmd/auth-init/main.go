// auth-init establishes the backend session interactively: it prompts for
// credentials, optionally registers the account, obtains a JWT pair, and
// stores it where the kharcha server will find it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"kharcha/internal/api"
	"kharcha/internal/config"
	"kharcha/internal/log"
	"kharcha/internal/session"
)

func main() {
	register := flag.Bool("register", false, "create the account before signing in")
	flag.Parse()

	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	store, err := session.NewSQLiteStore(cfg.SessionDBPath, cfg.SessionPassphrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client, err := api.New(cfg.BackendBaseURL, cfg.BackendTimeout, store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create backend client: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "read username: %v\n", err)
		os.Exit(1)
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}
	password := string(passwordBytes)

	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "username and password are required")
		os.Exit(1)
	}

	ctx := context.Background()

	if *register {
		if err := client.Register(ctx, username, password); err != nil {
			fmt.Fprintf(os.Stderr, "registration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Account %q created.\n", username)
	}

	if err := client.ObtainToken(ctx, username, password); err != nil {
		fmt.Fprintf(os.Stderr, "sign-in failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session stored in %s.\n", cfg.SessionDBPath)
	if cfg.SessionPassphrase != "" {
		fmt.Println("Refresh token is encrypted at rest.")
	}
}
