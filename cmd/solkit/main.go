package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/solkit/config"
	"github.com/brojonat/solkit/metrics"
	"github.com/brojonat/solkit/solana"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "solkit",
		Usage: "Solana wallet helper CLI",
		Description: `A command-line tool for creating keypairs, querying SOL and SPL token
balances, and submitting transfers against a Solana RPC endpoint.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			walletCommands(),
			balanceCommands(),
			sendCommands(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// connectionFlags are shared by every command that talks to the network.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"u"},
			Usage:   "Solana RPC endpoint URL (defaults to devnet)",
			EnvVars: []string{"SOLANA_RPC_URL"},
		},
		&cli.StringFlag{
			Name:    "commitment",
			Aliases: []string{"c"},
			Usage:   "Commitment level: processed, confirmed, or finalized",
			EnvVars: []string{"SOLANA_COMMITMENT"},
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.StringFlag{
			Name:  "jq",
			Usage: "jq filter expression applied to the JSON output",
		},
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

var (
	metricsOnce sync.Once
	appMetrics  *metrics.Metrics
)

// getMetrics returns the process-wide metrics instance, registered on the
// default Prometheus registerer. Created lazily so commands that never touch
// the library don't register collectors.
func getMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		appMetrics = metrics.NewMetrics(nil)
	})
	return appMetrics
}

// newSolanaClient builds a client from command flags, falling back to the
// environment configuration for anything not set explicitly.
func newSolanaClient(c *cli.Context) (*solana.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	rpcURL := c.String("rpc-url")
	if rpcURL == "" {
		rpcURL = cfg.SolanaRPCURL
	}
	commitment := rpc.CommitmentType(c.String("commitment"))
	if commitment == "" {
		commitment = cfg.CommitmentType()
	}

	return solana.Connect(rpcURL, commitment, getMetrics(), newLogger()), nil
}

// printJSON marshals v, optionally pipes it through the --jq filter, and
// writes the result to stdout.
func printJSON(c *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	filter := c.String("jq")
	if filter == "" {
		fmt.Println(string(data))
		return nil
	}

	query, err := gojq.Parse(filter)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode output for filtering: %w", err)
	}

	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq filter error: %w", err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal filtered output: %w", err)
		}
		fmt.Println(string(out))
	}

	return nil
}
