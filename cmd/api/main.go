package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/petermazzocco/picture-picker/internal/auth"
	"github.com/petermazzocco/picture-picker/internal/config"
	"github.com/petermazzocco/picture-picker/internal/handlers"
	"github.com/petermazzocco/picture-picker/internal/imagemeta"
	"github.com/petermazzocco/picture-picker/internal/live"
	"github.com/petermazzocco/picture-picker/internal/objectstore"
	"github.com/petermazzocco/picture-picker/internal/ranking"
	"github.com/petermazzocco/picture-picker/internal/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config and installs the default logger at its level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	level, _ := cfg.Server.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// openStore connects to the database and applies the schema.
func openStore(cfg *config.Config) (*store.Store, error) {
	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return store.New(db), nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

var rootCmd = &cobra.Command{
	Use:          "picture-picker",
	Short:        "Shared photo albums with voting",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		objects, err := objectstore.NewFromConfig(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("creating object store: %w", err)
		}

		// OAUTH
		sessionStore := auth.NewSessionStore(cfg.Auth)
		auth.Setup(cfg.Auth, sessionStore)

		logger := slog.Default()
		hub := live.NewHub(logger)
		go hub.Run(ctx)

		h := handlers.New(s, objects, imagemeta.Bimg{}, hub, sessionStore, logger)
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           h.Routes(cfg.RateLimit),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("starting API server", "addr", cfg.Server.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		fmt.Println("Database schema is up to date.")
		return nil
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank <albumID>",
	Short: "Print an album's photos in ranked order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		albumID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid album id %q", args[0])
		}

		sortFlag, _ := cmd.Flags().GetString("sort")
		mode, err := ranking.ParseSortMode(sortFlag)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		album, err := s.FindAlbum(cmd.Context(), uint(albumID))
		if err != nil {
			return err
		}
		if err := ranking.Sort(album.Photos, mode); err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n\n", album.Title, mode)
		if len(album.Photos) == 0 {
			fmt.Println("No photos.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tTITLE\tSCORE\tUP\tDOWN\tCAPTURED\tADDED")
		for i := range album.Photos {
			p := &album.Photos[i]
			counts := ranking.Tally(p.Votes)
			captured := "-"
			if p.CaptureDate != nil {
				captured = p.CaptureDate.Format(time.DateTime)
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
				i+1, p.ID, p.Title, counts.Score(), counts.Upvotes, counts.Downvotes,
				captured, p.CreatedAt.Format(time.DateTime))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringP("sort", "s", string(ranking.DefaultSortMode), "Sort mode")
}
