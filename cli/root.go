package cli

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/satheeshds/phonebook/config"
	"github.com/satheeshds/phonebook/db"
	"github.com/satheeshds/phonebook/handlers"
)

// NewRootCommand returns the phonebook command tree. static is the frontend
// bundle served by the serve command; it may be nil.
func NewRootCommand(static fs.FS) *cobra.Command {
	root := &cobra.Command{
		Use:           "phonebook",
		Short:         "Phonebook REST service",
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(static), newPersonsCommand())
	return root
}

// openStore opens the record store named by url and applies migrations.
// The returned close function releases it.
func openStore(ctx context.Context, url string) (handlers.Store, func() error, error) {
	if url == config.MemoryDatabase {
		return db.NewMemPersons(), func() error { return nil }, nil
	}

	database, err := db.Open(url)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}
	return db.NewPersons(database), database.Close, nil
}
