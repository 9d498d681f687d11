package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/misterclayt0n/zwo2erg/internal/convert"
	"github.com/misterclayt0n/zwo2erg/internal/storage"
	"github.com/misterclayt0n/zwo2erg/internal/utils"
)

var watchInitial bool

// Editors often write a file in several steps; wait for it to settle.
const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Convert .zwo files in a directory whenever they are created or changed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		opts, err := batchOptions(cmd)
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer watcher.Close()
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st := openHistory()
		if st != nil {
			defer st.Close()
		}

		if watchInitial {
			files, err := convert.FindWorkouts(dir)
			if err != nil {
				return err
			}
			// Failures are reported per file; keep watching.
			_ = report(ctx, st, convert.Batch(ctx, files, opts))
		}

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", dir)
		return watchLoop(ctx, watcher, opts, st)
	},
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, opts convert.BatchOptions, st *storage.Storage) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !utils.IsWorkoutFile(ev.Name) || isHidden(ev.Name) {
				continue
			}
			appLog.Debug("workout changed", "file", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Error("watcher error", "error", err)

		case <-timer.C:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			clear(pending)
			_ = report(ctx, st, convert.Batch(ctx, files, opts))
		}
	}
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 0 && base[0] == '.'
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addConvertFlags(watchCmd)
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "Convert the files already in the directory before watching")
}
