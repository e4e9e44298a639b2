package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satheeshds/phonebook/models"
)

func newPersonsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "persons <database-url> [name number]",
		Short: "List the phonebook, or add an entry to it",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected a database url, optionally followed by a name and a number, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			store, closeStore, err := openStore(ctx, args[0])
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			if len(args) == 3 {
				p, err := store.Create(ctx, models.PersonInput{Name: args[1], Number: args[2]})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "added %s number %s to phonebook\n", p.Name, p.Number)
				return nil
			}

			persons, err := store.List(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "phonebook:")
			for _, p := range persons {
				fmt.Fprintf(out, "%s %s\n", p.Name, p.Number)
			}
			return nil
		},
	}
}
