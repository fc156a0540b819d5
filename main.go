package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"young-portfolio/api"
	"young-portfolio/config"
	"young-portfolio/exifmeta"
	"young-portfolio/gallery"
	"young-portfolio/model"
	"young-portfolio/storage"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio gallery server and maintenance tools",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gallery API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer logger.Sync()

		store, err := storage.NewJSONStore(config.DataDir, logger)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		files := &storage.LocalFileStorage{Dir: config.ImagesDir, Log: logger}
		cache := gallery.NewViewCache()

		watcher := &storage.Watcher{Log: logger, Cache: cache}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			if err := watcher.Watch(ctx, config.DataDir); err != nil {
				logger.Warn("data directory watcher stopped", zap.Error(err))
			}
		}()

		handlers := &api.GalleryHandlers{
			Store:        store,
			Files:        files,
			Cache:        cache,
			Log:          logger,
			SecretKey:    config.JWTSecret,
			PasswordHash: config.PasswordHash,
		}
		mux := http.NewServeMux()
		handlers.ServeHTTP(mux)

		logger.Info("starting server", zap.String("port", config.Port))
		return http.ListenAndServe(":"+config.Port, mux)
	},
}

// exifSyncCmd re-reads EXIF for every stored photography image and rewrites
// the collection with fresh camera metadata, smart tags and capture times.
var exifSyncCmd = &cobra.Command{
	Use:   "exif-sync",
	Short: "Refresh photography records from their image EXIF data",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer logger.Sync()

		store, err := storage.NewJSONStore(config.DataDir, logger)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		files := &storage.LocalFileStorage{Dir: config.ImagesDir, Log: logger}

		works, stats, err := store.LoadWorks(model.CategoryPhotography)
		if err != nil {
			return fmt.Errorf("loading photography works: %w", err)
		}

		updated := 0
		for i, w := range works {
			eventName := ""
			if w.Event != nil {
				eventName = w.Event.Name
			}
			path := files.Abs(storage.RelPath(model.CategoryPhotography, eventName, w.Filename))
			meta, err := exifmeta.ExtractFile(path)
			if err != nil {
				logger.Warn("skipping image without readable EXIF",
					zap.String("filename", w.Filename), zap.Error(err))
				continue
			}

			info := model.PhotoInfo{
				Camera:       meta.Make,
				Model:        meta.Model,
				FocalLength:  meta.FocalLength,
				Aperture:     meta.Aperture,
				ISO:          meta.ISO,
				ShutterSpeed: meta.ShutterSpeed,
			}
			userTags := ""
			if w.Photo != nil {
				userTags = strings.Join(w.Photo.Tags, ",")
			}
			info.Tags = gallery.SmartTags(info, w.Filename, userTags)
			works[i].Photo = &info

			if meta.TimeValid {
				works[i].Time = meta.CaptureTime
				works[i].TimeValid = true
				works[i].RawTime = gallery.FormatDateFull(meta.CaptureTime)
			}
			updated++
		}

		if err := store.ReplaceWorks(model.CategoryPhotography, works, stats); err != nil {
			return fmt.Errorf("writing photography works: %w", err)
		}

		fmt.Printf("Refreshed EXIF metadata for %d of %d photography works\n", updated, len(works))
		return nil
	},
}

// eventsByYearCmd backfills yearly collection events on digital works that
// have a valid timestamp but no event assignment.
var eventsByYearCmd = &cobra.Command{
	Use:   "events-by-year",
	Short: "Assign yearly collection events to digital works without one",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer logger.Sync()

		store, err := storage.NewJSONStore(config.DataDir, logger)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}

		works, stats, err := store.LoadWorks(model.CategoryDigital)
		if err != nil {
			return fmt.Errorf("loading digital works: %w", err)
		}

		assigned := 0
		for i, w := range works {
			if w.Event != nil || !w.TimeValid {
				continue
			}
			ev := gallery.InferEvent(w.Time, model.CategoryDigital)
			works[i].Event = &ev
			assigned++
		}

		if assigned > 0 {
			if err := store.ReplaceWorks(model.CategoryDigital, works, stats); err != nil {
				return fmt.Errorf("writing digital works: %w", err)
			}
		}

		fmt.Printf("Assigned yearly events to %d of %d digital works\n", assigned, len(works))
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash [password]",
	Short: "Print the bcrypt hash of a password for the PW variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := api.HashPassword(args[0])
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exifSyncCmd)
	rootCmd.AddCommand(eventsByYearCmd)
	rootCmd.AddCommand(hashCmd)
}
