package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the write bursts editors and the build pipeline
// produce when rewriting a snapshot.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the corpus when a snapshot file changes on disk and
// hands the fresh Snapshot to a callback. The callback is responsible for
// rebuilding whatever derived state it keeps (inverted index, ANN graph).
type Watcher struct {
	worksPath  string
	imagesPath string
	onReload   func(*Snapshot)

	fw *fsnotify.Watcher
}

// NewWatcher creates a watcher for the two snapshot files. onReload is
// invoked from the watcher goroutine, never concurrently with itself.
func NewWatcher(worksPath, imagesPath string, onReload func(*Snapshot)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the parent directories: build pipelines replace snapshot files
	// via rename, which drops a watch placed on the file itself.
	dirs := map[string]struct{}{
		filepath.Dir(worksPath):  {},
		filepath.Dir(imagesPath): {},
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	return &Watcher{
		worksPath:  worksPath,
		imagesPath: imagesPath,
		onReload:   onReload,
		fw:         fw,
	}, nil
}

// Run processes filesystem events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fw.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Warn("snapshot watcher error", slog.String("error", err.Error()))

		case <-pending:
			pending = nil
			slog.Info("snapshot changed, reloading corpus")
			w.onReload(Load(w.worksPath, w.imagesPath))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == filepath.Clean(w.worksPath) || name == filepath.Clean(w.imagesPath)
}
