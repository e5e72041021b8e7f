package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hurou927/pg-parting/internal/schema"
	"github.com/hurou927/pg-parting/internal/store"
)

var partitionsCmd = &cobra.Command{
	Use:   "partitions <entity>",
	Short: "List the partition tables that exist for an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		family, err := cfg.BuildFamily()
		if err != nil {
			return fmt.Errorf("building family: %w", err)
		}

		entity := args[0]
		if _, ok := family.Entity(entity); !ok {
			return fmt.Errorf("entity %s is not in the family", entity)
		}

		pg, err := store.Connect(ctx, &cfg.Connection)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()

		prefix := schema.PhysicalName(family.Prefix, entity, "")
		tables, err := pg.TablesWithPrefix(ctx, prefix)
		if err != nil {
			return err
		}

		for _, t := range tables {
			fmt.Println(t)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partitionsCmd)
}
