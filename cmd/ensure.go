package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/pg-parting/internal/ddl"
	"github.com/hurou927/pg-parting/internal/partition"
	"github.com/hurou927/pg-parting/internal/registry"
	"github.com/hurou927/pg-parting/internal/store"
)

var (
	sqlAll      bool
	currentOnly bool
	nextOnly    bool
	ifNotExists bool
)

var ensureCmd = &cobra.Command{
	Use:   "ensure <entity> [key]",
	Short: "Create the missing partition tables for an entity's family",
	Long: `Ensures the physical tables of a partition exist for every entity in the
family, in dependency order. With an explicit key, that partition is
ensured; without one, the current and the next partition are both
ensured. Already-existing tables are skipped, so re-running is always
safe.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if currentOnly && nextOnly {
			return fmt.Errorf("--current-only and --next-only cannot be combined")
		}

		family, err := cfg.BuildFamily()
		if err != nil {
			return fmt.Errorf("building family: %w", err)
		}

		pg, err := store.Connect(ctx, &cfg.Connection)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()

		reg := registry.New(family, pg)
		ensurer := partition.NewEnsurer(family, ddl.Postgres{}, pg, reg)
		if ifNotExists {
			ensurer.Options = ddl.Options{IfNotExists: true}
		}

		entity := args[0]
		var partKeys []string
		switch {
		case len(args) == 2:
			partKeys = []string{args[1]}
		case currentOnly:
			partKeys = []string{partition.KeyCurrent}
		case nextOnly:
			partKeys = []string{partition.KeyNext}
		default:
			partKeys = []string{partition.KeyCurrent, partition.KeyNext}
		}

		for _, key := range partKeys {
			stmts, err := ensurer.EnsurePartition(ctx, entity, key, sqlAll)
			if sqlAll {
				printStatements(stmts)
			}
			if err != nil {
				return err
			}
			if !sqlAll && len(stmts) == 0 {
				fmt.Fprintf(os.Stderr, "partition %s of %s already up to date\n", key, entity)
			}
		}

		return nil
	},
}

func printStatements(stmts []ddl.Statement) {
	for _, s := range stmts {
		fmt.Println(s.SQL + ";")
	}
}

func init() {
	ensureCmd.Flags().BoolVar(&sqlAll, "sqlall", false, "print the DDL without executing it")
	ensureCmd.Flags().BoolVar(&ifNotExists, "if-not-exists", false, "guard generated statements with IF NOT EXISTS")
	ensureCmd.Flags().BoolVarP(&currentOnly, "current-only", "c", false, "ensure only the current partition")
	ensureCmd.Flags().BoolVarP(&nextOnly, "next-only", "n", false, "ensure only the next partition")
	rootCmd.AddCommand(ensureCmd)
}
