package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/solkit/wallet"
)

func walletCommands() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "Keypair creation commands",
		Subcommands: []*cli.Command{
			walletNewCommand(),
			walletFromKeyCommand(),
		},
	}
}

func walletNewCommand() *cli.Command {
	return &cli.Command{
		Name:    "new",
		Aliases: []string{"create"},
		Usage:   "Generate a fresh keypair",
		Flags:   outputFlags(),
		Action: func(c *cli.Context) error {
			w, err := wallet.New()
			if err != nil {
				return fmt.Errorf("failed to create wallet: %w", err)
			}
			getMetrics().RecordWalletCreated()

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(c, w)
			}

			color.Green("✓ Wallet created")
			fmt.Printf("  Public Key:  %s\n", w.PublicKey)
			fmt.Printf("  Private Key: %s\n", w.PrivateKey)
			color.Yellow("  Keep the private key secret; it is not stored anywhere.")
			return nil
		},
	}
}

func walletFromKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "from-key",
		Aliases:   []string{"import"},
		Usage:     "Reconstruct a wallet from a base58 private key",
		ArgsUsage: "PRIVATE_KEY",
		Flags:     outputFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("private key is required")
			}

			w, err := wallet.FromPrivateKey(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("failed to reconstruct wallet: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(c, w)
			}

			color.Green("✓ Wallet reconstructed")
			fmt.Printf("  Public Key: %s\n", w.PublicKey)
			return nil
		},
	}
}
