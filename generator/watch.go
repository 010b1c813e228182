package generator

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/fn"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch generates the sources of dir, then again on every change of a .go file, until ctx is done.
//
// Each round writes the outputs and hands the results to report. Changes of generated files are ignored.
func Watch(ctx context.Context, dir string, recursive bool, opts Options, report func([]*Result, error)) error {
	o := opts.normalize()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(w)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (!recursive || skipped(d.Name())) {
			return filepath.SkipDir
		}
		o.Logger.Debug("watch", zap.String("dir", path))
		return w.Add(path)
	})
	if err != nil {
		return err
	}
	round := func() {
		files, err := Discover(dir, recursive, o.Tag)
		if err != nil {
			report(nil, err)
			return
		}
		rs, err := Files(files, *o)
		for _, r := range rs {
			written, e := r.Write()
			if e != nil {
				o.Logger.Error("write", zap.String("output", r.Output), zap.Error(e))
				continue
			}
			if written {
				o.Logger.Info("written", zap.String("output", r.Output))
			}
		}
		report(rs, err)
	}
	round()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".go") || strings.HasSuffix(ev.Name, o.Suffix+".go") {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			o.Logger.Debug("changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			round()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.Logger.Warn("watcher", zap.Error(err))
		}
	}
}
