package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

func balanceCommands() *cli.Command {
	return &cli.Command{
		Name:  "balance",
		Usage: "Balance query commands",
		Subcommands: []*cli.Command{
			balanceSolCommand(),
			balanceSplCommand(),
		},
	}
}

func balanceSolCommand() *cli.Command {
	return &cli.Command{
		Name:      "sol",
		Usage:     "Query the native SOL balance of an address",
		ArgsUsage: "ADDRESS",
		Flags:     append(connectionFlags(), outputFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("address is required")
			}

			client, err := newSolanaClient(c)
			if err != nil {
				return err
			}

			balance, err := client.GetSolBalance(context.Background(), c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(c, balance)
			}

			fmt.Printf("Address: %s\n", balance.PublicKey)
			fmt.Printf("Balance: %.9f SOL\n", balance.Balance)
			return nil
		},
	}
}

func balanceSplCommand() *cli.Command {
	return &cli.Command{
		Name:      "spl",
		Usage:     "Query an SPL token balance of an address",
		ArgsUsage: "ADDRESS MINT",
		Flags:     append(connectionFlags(), outputFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("address and mint are required")
			}

			client, err := newSolanaClient(c)
			if err != nil {
				return err
			}

			balance, err := client.GetSplBalance(context.Background(), c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("failed to get token balance: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(c, balance)
			}

			fmt.Printf("Address: %s\n", balance.PublicKey)
			fmt.Printf("Mint:    %s\n", balance.TokenAddress)
			fmt.Printf("Balance: %v\n", balance.Balance)
			return nil
		},
	}
}
