// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/palantir/conjure-sub002"
)

// Events arriving within this interval of each other trigger one rebuild.
const watchDebounce = 100 * time.Millisecond

// watch runs build once, then again after every change to a schema file
// under inputs or read by the previous build, until ctx is cancelled.
func (a *app) watch(ctx context.Context, inputs []string, build func(context.Context, []string) int) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.printer.failure(err)
		return 1
	}
	defer watcher.Close()

	dirs, err := watchDirs(inputs)
	if err != nil {
		a.printer.failure(err)
		return 1
	}
	watched := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			a.printer.failure(err)
			return 1
		}
		watched[dir] = struct{}{}
	}
	watchSources := func() {
		for _, dir := range sourceDirs(a.sources) {
			if _, ok := watched[dir]; ok {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				a.logger.Error().Err(err).Str("dir", dir).Msg("failed to watch directory")
				continue
			}
			watched[dir] = struct{}{}
		}
	}

	output := ""
	if a.config.Output != "" {
		output, _ = filepath.Abs(a.config.Output)
	}

	build(ctx, inputs)
	watchSources()
	var rebuild <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return 0
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						a.logger.Error().Err(err).Str("dir", event.Name).Msg("failed to watch directory")
					} else {
						watched[event.Name] = struct{}{}
					}
					continue
				}
			}
			if !isSchemaEvent(event, output) {
				continue
			}
			a.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("schema changed")
			rebuild = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			a.logger.Error().Err(err).Msg("watch error")
		case <-rebuild:
			rebuild = nil
			build(ctx, inputs)
			watchSources()
		}
	}
}

// watchDirs returns every directory that holds an input: the parent of
// each input file, and each input directory with its subdirectories.
func watchDirs(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Dir(input))
			continue
		}
		err = filepath.WalkDir(input, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}

// sourceDirs returns the parent directory of each file, without duplicates.
func sourceDirs(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	var dirs []string
	for _, file := range files {
		dir := filepath.Dir(file)
		if _, ok := seen[dir]; !ok {
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// isSchemaEvent reports whether event changed a schema file other than the
// compiler's own output.
func isSchemaEvent(event fsnotify.Event, output string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if output != "" {
		if abs, err := filepath.Abs(event.Name); err == nil && abs == output {
			return false
		}
	}
	return conjure.IsSchemaFile(event.Name)
}
