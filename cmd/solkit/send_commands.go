package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func sendCommands() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Transfer submission commands",
		Subcommands: []*cli.Command{
			sendSolCommand(),
			sendSplCommand(),
		},
	}
}

func sendSolCommand() *cli.Command {
	return &cli.Command{
		Name:      "sol",
		Usage:     "Send SOL to an address and wait for confirmation",
		ArgsUsage: "FROM_PRIVATE_KEY TO_ADDRESS AMOUNT",
		Flags:     append(connectionFlags(), outputFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() < 3 {
				return fmt.Errorf("private key, recipient address, and amount are required")
			}

			amount, err := strconv.ParseFloat(c.Args().Get(2), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", c.Args().Get(2), err)
			}

			client, err := newSolanaClient(c)
			if err != nil {
				return err
			}

			result, err := client.SendSol(context.Background(), c.Args().Get(0), c.Args().Get(1), amount)
			if err != nil {
				return fmt.Errorf("failed to send SOL: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(c, result)
			}

			color.Green("✓ Transfer confirmed")
			fmt.Printf("  Signature: %s\n", result.TransactionSignature)
			return nil
		},
	}
}

func sendSplCommand() *cli.Command {
	return &cli.Command{
		Name:      "spl",
		Usage:     "Send SPL tokens to an address and wait for confirmation",
		ArgsUsage: "FROM_PRIVATE_KEY TO_ADDRESS AMOUNT MINT",
		Flags:     append(connectionFlags(), outputFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() < 4 {
				return fmt.Errorf("private key, recipient address, amount, and mint are required")
			}

			amount, err := strconv.ParseFloat(c.Args().Get(2), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", c.Args().Get(2), err)
			}

			client, err := newSolanaClient(c)
			if err != nil {
				return err
			}

			result, err := client.SendSplToken(context.Background(), c.Args().Get(0), c.Args().Get(1), amount, c.Args().Get(3))
			if err != nil {
				return fmt.Errorf("failed to send tokens: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(c, result)
			}

			color.Green("✓ Transfer confirmed")
			fmt.Printf("  Signature: %s\n", result.TransactionSignature)
			return nil
		},
	}
}
