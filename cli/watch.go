package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// watch renders once and again on every change to the template until ctx
// is cancelled.
func (cmd *RenderCmd) watch(ctx context.Context, stdout, stderr io.Writer, globals *Globals) error {
	renderOnce := func() {
		runCtx, report := globals.startTelemetry(ctx, stderr, "render "+cmd.Template)
		defer report()

		var cmdErr *CommandError
		if _, err := cmd.render(runCtx, stdout, stderr, globals.ErrorFormat); err != nil && !errors.As(err, &cmdErr) {
			printError(stderr, err.Error())
		}
	}

	renderOnce()
	printInfof(stderr, "Watching %s for changes", pathStyle.Render(cmd.Template))

	return watchFile(ctx, cmd.Template, func() {
		_, _ = fmt.Fprintln(stdout)
		renderOnce()
	})
}

// watchFile calls onChange after path is written, created or replaced. The
// parent directory is watched so that editors which save by renaming a new
// file over the old one keep triggering events.
func watchFile(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("template changed", "event", event.Op.String())
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		}
	}
}
