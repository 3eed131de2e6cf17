/*
Package library validates a directory tree of PRAY archives.

Every .agent and .agents file found is decoded and each sprite it carries is
decoded through the sprite cache, so a successful scan also leaves the cache
warm for later use.
*/
package library

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/pray"
	"github.com/bodgit/pray/cache"
	"github.com/bodgit/pray/sprite"
	"github.com/pkg/errors"
)

const defaultWorkers = 10

// Result describes one successfully decoded archive.
type Result struct {
	Path  string
	Tags  []pray.Tag
	Files []*pray.File
	// Frames counts the sprite frames decoded from Files.
	Frames int
}

// Library scans directories for archives.
type Library struct {
	cache  *cache.Cache
	logger *log.Logger

	// Workers is the number of archives decoded concurrently.
	Workers int
}

// New returns a Library using c to decode sprites. c may be nil in which
// case sprites are not checked.
func New(c *cache.Cache, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Library{
		cache:   c,
		logger:  logger,
		Workers: defaultWorkers,
	}
}

// IsArchive reports whether filename has an archive extension.
func IsArchive(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".agent", ".agents":
		return true
	}
	return false
}

func (l *Library) findArchives(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !IsArchive(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (l *Library) scanArchive(file string) (Result, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return Result{}, err
	}

	a, err := pray.Decode(b)
	if err != nil {
		return Result{}, errors.Wrapf(err, "library: %s", file)
	}

	r := Result{
		Path:  file,
		Tags:  a.Tags(),
		Files: a.Files,
	}

	if l.cache == nil {
		return r, nil
	}

	for _, f := range a.Files {
		if !sprite.IsSprite(f.Filename()) {
			continue
		}
		frames, err := l.cache.Sprite(f.Filename(), f.Data)
		if err != nil {
			return Result{}, errors.Wrapf(err, "library: %s: %s", file, f.Filename())
		}
		r.Frames += len(frames)
	}

	return r, nil
}

func (l *Library) archiveWorker(ctx context.Context, in <-chan string) (<-chan Result, <-chan error, error) {
	out := make(chan Result)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}

			r, err := l.scanArchive(file)
			if err != nil {
				errc <- err
				return
			}
			l.logger.Printf("Found %d blocks and %d files in \"%s\"\n", len(r.Tags), len(r.Files), file)

			out <- r
		}
	}()
	return out, errc, nil
}

// waitForPipeline returns the first error from any stage, cancelling the
// rest, and only returns once every stage has finished.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func mergeResults(cs ...<-chan Result) <-chan Result {
	var wg sync.WaitGroup
	out := make(chan Result)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan Result) {
			for r := range c {
				out <- r
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan decodes every archive under path. The first failure stops the scan
// and is returned. Results are sorted by path.
func (l *Library) Scan(ctx context.Context, path string) ([]Result, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error
	var resultList []<-chan Result

	files, errc, err := l.findArchives(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	workers := l.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		results, errc, err := l.archiveWorker(ctx, files)
		if err != nil {
			return nil, err
		}
		resultList = append(resultList, results)
		errcList = append(errcList, errc)
	}

	var results []Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range mergeResults(resultList...) {
			results = append(results, r)
		}
	}()

	err = waitForPipeline(cancelFunc, errcList...)
	<-done
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	return results, nil
}
