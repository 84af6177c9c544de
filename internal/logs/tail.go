package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"
)

const (
	pollInterval = 250 * time.Millisecond
	maxLineBytes = 1 << 20
)

// TailOptions selects which part of a log file Tail returns.
type TailOptions struct {
	// Offset is the byte position to continue from. A negative offset reads
	// the last Limit lines instead.
	Offset int64
	Limit  int
	// Follow waits up to Wait for new lines when none are available.
	Follow bool
	Wait   time.Duration
	// Match keeps only lines containing every term, case-insensitively.
	Match []string
}

// TailResult holds the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from the log file at path. A missing file yields no lines
// and a zero offset so callers can poll until logging starts.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return TailResult{}, nil
		}
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}
	opts.Wait = max(opts.Wait, 0)
	match := matcher(opts.Match)

	var result TailResult
	if opts.Offset < 0 {
		result, err = lastLines(path, opts.Limit, match)
	} else {
		offset := opts.Offset
		// A rotated or truncated file restarts from its end.
		if offset > info.Size() {
			offset = info.Size()
		}
		result, err = linesFrom(path, offset, match)
	}
	if err != nil {
		return result, err
	}
	if opts.Follow && opts.Wait > 0 && len(result.Lines) == 0 {
		return waitForLines(ctx, path, result.Offset, opts.Wait, match)
	}
	return result, nil
}

func matcher(terms []string) func(string) bool {
	var lowered []string
	for _, term := range terms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			lowered = append(lowered, term)
		}
	}
	if len(lowered) == 0 {
		return func(string) bool { return true }
	}
	return func(line string) bool {
		line = strings.ToLower(line)
		for _, term := range lowered {
			if !strings.Contains(line, term) {
				return false
			}
		}
		return true
	}
}

// lastLines keeps a ring of the final limit matching lines.
func lastLines(path string, limit int, match func(string) bool) (TailResult, error) {
	if limit <= 0 {
		info, err := os.Stat(path)
		if err != nil {
			return TailResult{}, fmt.Errorf("stat log file: %w", err)
		}
		return TailResult{Offset: info.Size()}, nil
	}

	ring := make([]string, limit)
	count := 0
	offset, err := scanFrom(path, 0, func(line string) {
		if match(line) {
			ring[count%limit] = line
			count++
		}
	})
	if err != nil {
		return TailResult{}, err
	}

	n := min(count, limit)
	lines := make([]string, n)
	start := count - n
	for i := range n {
		lines[i] = ring[(start+i)%limit]
	}
	return TailResult{Lines: lines, Offset: offset}, nil
}

func linesFrom(path string, offset int64, match func(string) bool) (TailResult, error) {
	var lines []string
	next, err := scanFrom(path, offset, func(line string) {
		if match(line) {
			lines = append(lines, line)
		}
	})
	if err != nil {
		return TailResult{Offset: offset}, err
	}
	return TailResult{Lines: lines, Offset: next}, nil
}

// scanFrom calls fn for every complete line after offset and returns the
// offset just past the last complete line. A trailing partial line is left
// for the next read.
func scanFrom(path string, offset int64, fn func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return offset, nil
			}
			return offset, fmt.Errorf("read log file: %w", err)
		}
		offset += int64(len(line))
		if len(line) > maxLineBytes {
			line = line[:maxLineBytes]
		}
		fn(strings.TrimRight(line, "\r\n"))
	}
}

func waitForLines(ctx context.Context, path string, offset int64, wait time.Duration, match func(string) bool) (TailResult, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		result, err := linesFrom(path, offset, match)
		if err != nil || len(result.Lines) > 0 {
			return result, err
		}
		offset = result.Offset
		if time.Now().After(deadline) {
			return result, nil
		}
		select {
		case <-ctx.Done():
			return TailResult{Offset: offset}, ctx.Err()
		case <-ticker.C:
		}
	}
}
