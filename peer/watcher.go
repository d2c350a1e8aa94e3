// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/logger"
)

// watcher - reloads the peer directory when its file changes
//
// watches the containing directory so editors that replace the file
// still trigger a reload
type watcher struct {
	log *logger.L
}

func (w *watcher) Run(args interface{}, shutdown <-chan struct{}) {
	w.log.Info("starting…")

	fileWatcher, err := fsnotify.NewWatcher()
	if nil != err {
		w.log.Errorf("watcher create: %s", err)
		return
	}
	defer fileWatcher.Close()

	peersFile := globalData.peersFile
	if err := fileWatcher.Add(filepath.Dir(peersFile)); nil != err {
		w.log.Errorf("watch %s: %s", peersFile, err)
		return
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event := <-fileWatcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(peersFile) {
				continue
			}
			if 0 == event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.log.Infof("peers file changed: %s", event.Op)
			if err := Reload(); nil != err {
				// keep the previous directory on a bad edit
				w.log.Warnf("reload failed: %s", err)
			}

		case err := <-fileWatcher.Errors:
			w.log.Warnf("watch error: %s", err)
		}
	}
	w.log.Info("stopped")
}
