package cleaner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// Estimate previews what CleanTempFiles would reclaim without deleting
// anything. Folders are walked in parallel; unreadable entries are
// skipped. The result is a best effort: files can appear or vanish, or
// turn out to be locked, before a real run.
func (e *Executor) Estimate(ctx context.Context) (types.CleanupEstimate, error) {
	log := logging.Get("cleaner")
	start := time.Now()

	est := types.CleanupEstimate{Folders: make([]types.FolderEstimate, 0, len(e.cfg.TempFolders))}
	for _, folder := range e.cfg.TempFolders {
		fe, err := e.estimateFolder(ctx, folder)
		if err != nil {
			return est, err
		}
		est.Folders = append(est.Folders, fe)
		est.Files += fe.Files
		est.Bytes += fe.Bytes
	}

	est.Elapsed = time.Since(start)
	log.Debug("cleanup estimate", "files", est.Files, "bytes", est.Bytes, "elapsed", est.Elapsed)
	return est, nil
}

func (e *Executor) estimateFolder(ctx context.Context, folder string) (types.FolderEstimate, error) {
	fe := types.FolderEstimate{Path: folder}

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		fe.Missing = true
		return fe, nil
	}

	var files, dirs, bytes atomic.Int64
	conf := fastwalk.Config{Follow: false}

	walkErr := fastwalk.Walk(&conf, folder, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		if path == folder {
			return nil
		}
		if d.IsDir() {
			dirs.Add(1)
			return nil
		}
		if e.kept(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files.Add(1)
		bytes.Add(info.Size())
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return fe, walkErr
		}
		logging.Get("cleaner").Debug("estimate walk error", "folder", folder, "error", walkErr)
	}

	fe.Files = files.Load()
	fe.Dirs = dirs.Load()
	fe.Bytes = bytes.Load()
	return fe, nil
}
