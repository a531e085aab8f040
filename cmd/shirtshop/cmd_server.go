package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shirtshop/app/listeners"
	"github.com/shashiranjanraj/shirtshop/app/repositories"
	"github.com/shashiranjanraj/shirtshop/app/routes"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/internal/kernel"
	"github.com/shashiranjanraj/shirtshop/internal/server"
	"github.com/shashiranjanraj/shirtshop/pkg/database"
	"github.com/shashiranjanraj/shirtshop/pkg/migration"
	"github.com/shashiranjanraj/shirtshop/pkg/storage"
)

var (
	serveMigrate bool
	serveWorkers int
)

// shirtshop serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server with in-process queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shutdown, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer shutdown()

		if serveMigrate {
			if err := migration.New(database.DB, os.Stdout).Run(); err != nil {
				return err
			}
		}

		workers := serveWorkers
		if workers < 0 {
			workers = config.QueueWorkers()
		}
		if workers > 0 {
			startBackground(ctx, workers)
		}

		svc := routes.NewServices(repositories.New(database.DB), storage.Default())
		listeners.RegisterOrderStream(svc.Stream)
		defer svc.Stream.Close()

		return server.Start(ctx, kernel.NewHandler(svc, storage.Default()))
	},
}

// shirtshop route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kernel.NewRouter(routes.NewServices(repositories.New(nil), nil), nil)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run pending migrations before serving")
	serveCmd.Flags().IntVarP(&serveWorkers, "workers", "w", -1, "Queue workers to run in-process (0 disables, default QUEUE_WORKERS)")
}
