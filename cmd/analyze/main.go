package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/pierrec/lz4"

	"github.com/stephenreynolds/flamegraph-ai/internal/hotspot"
)

const (
	workersCount int = 64
	topHotspots  int = 5
)

func main() {
	args := os.Args[1:]
	if len(args) != 1 {
		fmt.Println("./analyze <traces directory>") // nolint
		return
	}

	root := args[0]
	f, err := os.Open(root)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	pathChannel := make(chan string, workersCount)
	errChannel := make(chan error)

	go func() {
		for err := range errChannel {
			log.Println(err)
		}
	}()

	var wg sync.WaitGroup

	for w := 0; w < workersCount; w++ {
		wg.Add(1)
		go analyzeTraces(pathChannel, errChannel, &wg)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		pathChannel <- path
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	close(pathChannel)
	wg.Wait()
	close(errChannel)
}

func analyzeTraces(pathChannel chan string, errChan chan error, wg *sync.WaitGroup) {
	defer wg.Done()

	for path := range pathChannel {
		summary, err := analyzeTrace(path)
		if err != nil {
			errChan <- fmt.Errorf("%s: %w", path, err)
			continue
		}
		hotspots := summary.Hotspots
		if len(hotspots) > topHotspots {
			hotspots = hotspots[:topHotspots]
		}
		for _, h := range hotspots {
			fmt.Printf("%s: #%d %s (%s) self=%.3f total=%.3f inclusive=%.2f%% exclusive=%.2f%%\n",
				filepath.Base(path), h.Rank, h.Name, h.File, h.SelfTimeMs, h.TotalTimeMs, h.InclusivePct, h.ExclusivePct)
		}
	}
}

func analyzeTrace(path string) (*hotspot.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var document interface{}
	if err := gojson.NewDecoder(lz4.NewReader(f)).Decode(&document); err != nil {
		return nil, err
	}
	return hotspot.Analyze(document)
}
