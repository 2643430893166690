package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yunginnanet/ftdi-absenc/pkg/absenc"
	"github.com/yunginnanet/ftdi-absenc/pkg/config"
)

// readReplay parses one line per tick, one whitespace separated raw sample per encoder.
// Blank lines and lines starting with # are skipped.
func readReplay(r io.Reader, encoders int) ([][]int, error) {
	cols := make([][]int, encoders)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != encoders {
			return nil, fmt.Errorf("line %d: expected %d samples, got %d", line, encoders, len(fields))
		}
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cols[i] = append(cols[i], v)
		}
	}
	return cols, sc.Err()
}

func replaySources(cols [][]int) []absenc.Source {
	sources := make([]absenc.Source, 0, len(cols))
	for _, c := range cols {
		sources = append(sources, absenc.NewSequenceSource(c...))
	}
	return sources
}

func replay(cfg config.Config, opts options) error {
	f, err := os.Open(opts.replayPath)
	if err != nil {
		return err
	}
	defer f.Close()

	cols, err := readReplay(f, len(cfg.Encoders))
	if err != nil {
		return err
	}

	poller := newPoller(cfg, replaySources(cols), opts.every)
	if err = poller.Initialize(); err != nil {
		return err
	}
	ticks := len(cols[0])

	log.Info().Int("ticks", ticks).Str("file", opts.replayPath).Msg("replaying")

	for i := 0; i < ticks; i++ {
		poller.Tick()
	}
	if err = poller.Err(); err != nil {
		return err
	}

	for _, r := range poller.Snapshot() {
		log.Info().Str("encoder", r.Name).Float64("angle", r.Angle).Float64("unwrapped", r.Unwrapped).Int32("turns", r.Turns).Msg("final position")
	}
	return nil
}
