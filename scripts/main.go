package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/feeflow/feeflow/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "repair-voucher-numbers",
		Description: "Rewrite fallback-numbered vouchers with proper sequential numbers",
		Run:         internal.RepairVoucherNumbers,
	},
	{
		Name:        "migrate-schema",
		Description: "Apply the database schema",
		Run:         internal.MigrateSchema,
	},
}

func main() {
	// Define command line flags
	var (
		listCommands bool
		cmdName      string
		dryRun       bool
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-24s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	if dryRun {
		os.Setenv("DRY_RUN", "true")
	}

	// Find and run the command
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
