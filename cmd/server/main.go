package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/tinyurl-history/internal/container"
	"github.com/serroba/tinyurl-history/internal/history"
	"github.com/serroba/tinyurl-history/internal/messaging"
	"github.com/serroba/tinyurl-history/internal/shortener"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := container.New(options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			if options.Events == container.EventsMemory {
				group := do.MustInvoke[*messaging.ConsumerGroup](injector)
				if err := group.Start(context.Background()); err != nil {
					logger.Fatal("failed to start consumer group", zap.Error(err))
				}
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("backend", options.Backend),
				zap.String("collectionKey", options.CollectionKey),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Root().Use = "tinyurl-history"
	cli.Root().AddCommand(shortenCommand(), historyCommand(), clearCommand())

	cli.Run()
}

// withInjector runs fn against a fresh container and shuts it down afterwards.
func withInjector(options *container.Options, fn func(*do.Injector) error) {
	injector := container.New(options)

	err := fn(injector)

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func shortenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten a URL and add it to the history",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *container.Options) {
			withInjector(options, func(injector *do.Injector) error {
				service, err := do.Invoke[*shortener.Service](injector)
				if err != nil {
					return err
				}

				rec, err := service.Shorten(cmd.Context(), args[0])
				if rec.ShortURL != "" {
					fmt.Fprintln(cmd.OutOrStdout(), rec.ShortURL)
				}

				return err
			})
		}),
	}
}

func historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List shortened URLs, newest first",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			withInjector(options, func(injector *do.Injector) error {
				store, err := do.Invoke[*history.Store](injector)
				if err != nil {
					return err
				}

				for _, rec := range store.List() {
					fmt.Fprintln(cmd.OutOrStdout(), rec.String())
				}

				return nil
			})
		}),
	}
}

func clearCommand() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every record from the history",
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			if !confirmed {
				fmt.Fprintln(os.Stderr, "refusing to clear the history without --yes")
				os.Exit(1)
			}

			withInjector(options, func(injector *do.Injector) error {
				service, err := do.Invoke[*shortener.Service](injector)
				if err != nil {
					return err
				}

				removed, err := service.Clear(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "removed %d records\n", removed)

				return nil
			})
		}),
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm clearing the history")

	return cmd
}
