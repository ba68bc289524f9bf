// Package ingestion reads newline-delimited envelope files and feeds decoded
// envelopes to a sink in file order, then line order.
package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"goz-scoring/internal/domain"
)

// DefaultMaxLineSize bounds a single input line.
const DefaultMaxLineSize = 16 << 20

// ErrOpenInput is returned when an input file cannot be opened.
var ErrOpenInput = errors.New("open input")

// Sink receives decoded envelopes. Implemented by scoring.Engine.
type Sink interface {
	Observe(env *domain.Envelope)
}

// Recorder receives reader activity. Implemented by observability.RunMetrics.
type Recorder interface {
	RecordLine()
	RecordDecodeError()
}

type nopRecorder struct{}

func (nopRecorder) RecordLine()        {}
func (nopRecorder) RecordDecodeError() {}

// Result contains statistics from a read.
type Result struct {
	Files        int
	Lines        int
	BlankLines   int
	Envelopes    int
	DecodeErrors int
	Duration     time.Duration
}

func (r *Result) add(o *Result) {
	r.Files += o.Files
	r.Lines += o.Lines
	r.BlankLines += o.BlankLines
	r.Envelopes += o.Envelopes
	r.DecodeErrors += o.DecodeErrors
}

// Reader decodes envelope streams.
type Reader struct {
	sink        Sink
	recorder    Recorder
	logger      *log.Logger
	maxLineSize int
}

// ReaderOptions contains configuration for creating a Reader.
type ReaderOptions struct {
	Sink        Sink
	Recorder    Recorder // optional
	Logger      *log.Logger
	MaxLineSize int // Default: DefaultMaxLineSize
}

// NewReader creates a new envelope reader.
func NewReader(opts ReaderOptions) *Reader {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	maxLineSize := opts.MaxLineSize
	if maxLineSize == 0 {
		maxLineSize = DefaultMaxLineSize
	}

	return &Reader{
		sink:        opts.Sink,
		recorder:    recorder,
		logger:      logger,
		maxLineSize: maxLineSize,
	}
}

// ReadFiles reads every path in order. An unopenable file or a read error
// stops the run; malformed lines are logged and skipped.
func (r *Reader) ReadFiles(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	total := &Result{}

	for _, path := range paths {
		res, err := r.readFile(ctx, path)
		if res != nil {
			total.add(res)
		}
		if err != nil {
			total.Duration = time.Since(start)
			return total, err
		}
	}

	total.Duration = time.Since(start)
	return total, nil
}

func (r *Reader) readFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpenInput, path, err)
	}
	defer f.Close()

	res, err := r.Read(ctx, path, f)
	if res != nil {
		res.Files = 1
	}
	return res, err
}

// Read decodes envelopes from src, which is named name in log lines.
func (r *Reader) Read(ctx context.Context, name string, src io.Reader) (*Result, error) {
	start := time.Now()
	res := &Result{}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), r.maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, err
		}

		lineNo++
		res.Lines++
		r.recorder.RecordLine()

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			res.BlankLines++
			continue
		}

		env, err := domain.DecodeEnvelope(line)
		if err != nil {
			res.DecodeErrors++
			r.recorder.RecordDecodeError()
			r.logger.Printf("%s:%d: decode: %v", name, lineNo, err)
			continue
		}

		res.Envelopes++
		if r.sink != nil {
			r.sink.Observe(env)
		}
	}

	res.Duration = time.Since(start)
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read %s line %d: %w", name, lineNo+1, err)
	}
	return res, nil
}
