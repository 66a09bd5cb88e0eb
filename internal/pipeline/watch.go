package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch converts dir once, then re-runs the conversion whenever a matching
// document in dir is created, written, removed or renamed. Bursts of events
// are collapsed by debounce. It returns when ctx is cancelled. onResult, if
// non-nil, receives every conversion result.
func (c *Converter) Watch(ctx context.Context, dir, out string, debounce time.Duration, onResult func(*Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	log := c.log.With("dir", dir)
	log.Info("watcher: started")

	run := func() error {
		res, err := c.ConvertDir(ctx, dir, out)
		if err != nil {
			return err
		}
		if onResult != nil {
			onResult(res)
		}
		return nil
	}
	if err := run(); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Info("watcher: stopped")
			return nil

		case <-fire:
			if err := run(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// A half-written document fails to open or parse; the next
				// write event retries it.
				log.Error("watcher: conversion failed", "error", err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !c.watches(ev, out) {
				continue
			}
			log.Debug("watcher: change", "path", ev.Name, "op", ev.Op.String())
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher: error", "error", watchErr)
		}
	}
}

// watches reports whether ev touches a batch document. Changes to the
// output file itself are ignored so a rebuild does not trigger another.
func (c *Converter) watches(ev fsnotify.Event, out string) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if samePath(ev.Name, out) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return slices.Contains(c.extensions, ext)
}
