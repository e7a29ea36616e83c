package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"lidarcal/internal/logging"
	"lidarcal/internal/record"
)

// Options controls how an instrument file is read.
type Options struct {
	// Encoding is "latin1" (the recorder default) or "utf-8".
	Encoding string
	// SeparatorLine is the zero-based line naming the column separator.
	// Nil selects record.DefaultSeparatorLine.
	SeparatorLine *int
	// Workers above one decode lines concurrently before the ordered fold.
	Workers int
	Logger  *slog.Logger
}

// decodeChunk is the number of lines a worker decodes per task.
const decodeChunk = 256

type decoded struct {
	tag  record.Tag
	rec  record.Record
	err  error
	skip bool
}

// decodeLine splits line once. Tags without a decoding rule are marked for
// skipping instead of failing.
func decodeLine(line, sep string) decoded {
	tag, fields := record.SplitTag(line, sep)
	if !record.Known(tag) {
		return decoded{tag: tag, skip: true}
	}
	rec, err := record.DecodeFields(tag, fields, line)
	return decoded{tag: tag, rec: rec, err: err}
}

// ParseFile opens path and parses it.
func ParseFile(ctx context.Context, path string, opts Options) (*FileState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instrument file: %w", err)
	}
	defer f.Close()

	opts.Logger = logging.NewComponentLogger(opts.Logger, "parser").With(logging.File(path))
	state, err := Parse(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return state, nil
}

// Parse reads a whole instrument file from r and returns its finalised state.
// Any fatal error discards the partial state.
func Parse(ctx context.Context, r io.Reader, opts Options) (*FileState, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	lines, err := readLines(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	sepLine := record.DefaultSeparatorLine
	if opts.SeparatorLine != nil {
		sepLine = *opts.SeparatorLine
	}
	sep, err := record.DetectSeparator(lines, sepLine)
	if err != nil {
		return nil, err
	}
	logger.Debug("column separator detected", logging.String("separator", sep), logging.Int("lines", len(lines)))

	state := NewFileState()
	fold := func(i int, res decoded) error {
		if res.skip {
			if res.tag != "" {
				logger.Debug("skipping unknown record", logging.String(logging.FieldTag, string(res.tag)), logging.Int(logging.FieldLine, i+1))
			}
			return nil
		}
		if res.err != nil {
			return &LineError{Number: i + 1, Line: lines[i], Err: res.err}
		}
		if desc, ok := res.rec.(record.ChannelDescription); ok {
			if _, exists := state.Channel(desc.ID); exists {
				logger.Warn("channel redeclared; previous profiles discarded",
					logging.Channel(desc.ID), logging.Int(logging.FieldLine, i+1))
			}
		}
		if err := state.Apply(res.rec); err != nil {
			return &LineError{Number: i + 1, Line: lines[i], Err: err}
		}
		return nil
	}

	if opts.Workers > 1 {
		results, err := decodeConcurrently(ctx, lines, sep, opts.Workers)
		if err != nil {
			return nil, err
		}
		for i, res := range results {
			if err := fold(i, res); err != nil {
				return nil, err
			}
		}
	} else {
		for i, line := range lines {
			if i%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			if err := fold(i, decodeLine(line, sep)); err != nil {
				return nil, err
			}
		}
	}

	state.Finalize()
	logger.Info("instrument file parsed",
		logging.Int("channels", len(state.Channels)),
		logging.Int("profiles", state.ProfileCount()),
	)
	return state, nil
}

// decodeConcurrently decodes every line independently. Per-line failures are
// kept in the result so the fold can report the earliest one.
func decodeConcurrently(ctx context.Context, lines []string, sep string, workers int) ([]decoded, error) {
	results := make([]decoded, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(lines); start += decodeChunk {
		end := min(start+decodeChunk, len(lines))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				results[i] = decodeLine(lines[i], sep)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readLines(r io.Reader, encoding string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "latin1":
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case "utf-8":
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read instrument file: %w", err)
		}
	}
}
