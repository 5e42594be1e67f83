package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"musicvault/services"
	"musicvault/types"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	importWorkers int
	listFavorites bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import audio files into the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		library, err := openLibrary(cfg, nil)
		if err != nil {
			return err
		}

		paths := make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", arg, err)
			}
			paths = append(paths, abs)
		}

		bar := progressbar.Default(int64(len(paths)), "importing")
		batch := services.NewBatchImporter(library, importWorkers)
		results := batch.ImportAll(cmd.Context(), paths, func(types.ImportResult) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		failed := 0
		for _, r := range results {
			if !r.Succeeded() {
				failed++
			}
		}
		if err := printJSON(results); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d imports failed", failed, len(results))
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks in import order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		library, err := openLibrary(cfg, nil)
		if err != nil {
			return err
		}

		tracks := library.ListAll()
		if listFavorites {
			tracks = library.ListFavorites()
		}
		return printJSON(types.TrackListResponse{Tracks: tracks, Count: len(tracks)})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		library, err := openLibrary(cfg, nil)
		if err != nil {
			return err
		}

		track, err := library.Get(args[0])
		if err != nil {
			return err
		}
		return printJSON(track)
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id> <true|false>",
	Short: "Set or clear the favorite flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		favorite, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid favorite value %q: %w", args[1], err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		library, err := openLibrary(cfg, nil)
		if err != nil {
			return err
		}
		return library.SetFavorite(args[0], favorite)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a track and its managed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		library, err := openLibrary(cfg, nil)
		if err != nil {
			return err
		}
		return library.Delete(args[0])
	},
}

func init() {
	importCmd.Flags().IntVarP(&importWorkers, "workers", "w", runtime.NumCPU(), "number of files imported concurrently")
	listCmd.Flags().BoolVar(&listFavorites, "favorites", false, "only list favorite tracks")

	rootCmd.AddCommand(importCmd, listCmd, showCmd, favoriteCmd, deleteCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
