package allocatorcfg

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a tuning file whenever it changes on disk, adapted
// from the Orizon runtime's fsnotify-backed virtual filesystem watcher.
// Unlike that watcher, which multiplexes a general event stream, this
// one only cares about one path and hands back parsed Files.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	logger  *log.Logger
	updateC chan File
}

// NewWatcher starts watching path and emits a freshly parsed File on
// Updates() every time the file is written or created. The caller is
// responsible for draining Updates() and for calling Close.
func NewWatcher(path string, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(path); err != nil {
		fw.Close()

		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{path: path, fw: fw, logger: logger, updateC: make(chan File, 1)}
	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			f, err := Load(w.path)
			if err != nil {
				w.logger.Printf("allocatorcfg: reload %s failed: %v", w.path, err)

				continue
			}

			select {
			case w.updateC <- f:
			default:
				<-w.updateC
				w.updateC <- f
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			w.logger.Printf("allocatorcfg: watch error: %v", err)
		}
	}
}

// Updates returns the channel of reloaded Files. It is buffered to one
// entry; a reload that arrives before the previous one is consumed
// replaces it rather than blocking the watch loop.
func (w *Watcher) Updates() <-chan File {
	return w.updateC
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
