package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ghalass/gmao-pro-sub001/common/logger"
	"github.com/ghalass/gmao-pro-sub001/internal/client"

	"go.uber.org/zap"
)

const usage = `gmaoctl talks to the gmao-data API.

Usage:
  gmaoctl login -email E -password P        prints a token (export it as GMAO_TOKEN)
  gmaoctl rje -date YYYY-MM-DD [-xlsx out]  prints the daily report as JSON, or saves the workbook

Environment:
  GMAO_URL    API base URL (default http://localhost:8080)
  GMAO_TOKEN  bearer token used by rje
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log, err := logger.NewLogger(getEnv("LOG_LEVEL", "warn"), "console", "gmaoctl")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	c := client.New(getEnv("GMAO_URL", "http://localhost:8080"), log)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, c, os.Args[2:])
	case "rje":
		err = runRJE(ctx, c, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Debug("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("GMAO_PASSWORD"), "account password")
	_ = fs.Parse(args)

	sess, token, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "logged in as %s (entreprise %s)\n", sess.Email, sess.EntrepriseID)
	fmt.Println(token)
	return nil
}

func runRJE(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("rje", flag.ExitOnError)
	date := fs.String("date", time.Now().Format("2006-01-02"), "report date")
	out := fs.String("xlsx", "", "write the .xlsx export to this file instead of printing JSON")
	_ = fs.Parse(args)

	c.SetToken(os.Getenv("GMAO_TOKEN"))

	if *out != "" {
		data, err := c.ExportRJE(ctx, *date)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *out, err)
		}
		fmt.Fprintf(os.Stderr, "saved %s (%d bytes)\n", *out, len(data))
		return nil
	}

	rep, err := c.RJE(ctx, *date)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
