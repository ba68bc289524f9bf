package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goz-scoring/internal/domain"
)

type collectSink struct {
	envelopes []*domain.Envelope
}

func (s *collectSink) Observe(env *domain.Envelope) {
	s.envelopes = append(s.envelopes, env)
}

type countRecorder struct {
	lines, decodeErrors int
}

func (r *countRecorder) RecordLine()        { r.lines++ }
func (r *countRecorder) RecordDecodeError() { r.decodeErrors++ }

const (
	transferLine = `{"network":"hub","msg":[{"EventIBC":{"PacketTransfer":{"data":{"send_packet.packet_dst_channel":["channel-1"]}}}}]}`
	otherLine    = `{"network":"zone","msg":["NewBlock"]}`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReader_DecodesInOrder(t *testing.T) {
	sink := &collectSink{}
	r := NewReader(ReaderOptions{Sink: sink, Logger: log.New(&bytes.Buffer{}, "", 0)})

	input := transferLine + "\n" + otherLine + "\n"
	res, err := r.Read(context.Background(), "stream", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if res.Lines != 2 || res.Envelopes != 2 {
		t.Errorf("result = %+v, want 2 lines, 2 envelopes", res)
	}
	if len(sink.envelopes) != 2 {
		t.Fatalf("sink got %d envelopes, want 2", len(sink.envelopes))
	}
	if sink.envelopes[0].Network != "hub" || sink.envelopes[1].Network != "zone" {
		t.Errorf("order = %s, %s", sink.envelopes[0].Network, sink.envelopes[1].Network)
	}
}

func TestReader_MalformedLinesContinue(t *testing.T) {
	var logs bytes.Buffer
	sink := &collectSink{}
	rec := &countRecorder{}
	r := NewReader(ReaderOptions{
		Sink:     sink,
		Recorder: rec,
		Logger:   log.New(&logs, "[ingest] ", 0),
	})

	input := strings.Join([]string{
		transferLine,
		`{"network":`,
		`{"network":"hub","msg":[{"EventIBC":{"OpaquePacket":{"data":{"tx.hash":"not-a-list"}}}}]}`,
		otherLine,
	}, "\n")

	res, err := r.Read(context.Background(), "events.json", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if res.DecodeErrors != 2 {
		t.Errorf("DecodeErrors = %d, want 2", res.DecodeErrors)
	}
	if len(sink.envelopes) != 2 {
		t.Errorf("sink got %d envelopes, want 2", len(sink.envelopes))
	}
	if rec.lines != 4 || rec.decodeErrors != 2 {
		t.Errorf("recorder = %+v", rec)
	}
	if !strings.Contains(logs.String(), "[ingest] events.json:2: decode:") {
		t.Errorf("log = %q", logs.String())
	}
	if !strings.Contains(logs.String(), "events.json:3: decode:") {
		t.Errorf("log = %q", logs.String())
	}
}

func TestReader_SkipsBlankLines(t *testing.T) {
	sink := &collectSink{}
	r := NewReader(ReaderOptions{Sink: sink})

	res, err := r.Read(context.Background(), "s", strings.NewReader("\n"+transferLine+"\n   \n\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if res.BlankLines != 3 || res.DecodeErrors != 0 || res.Envelopes != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestReader_LineTooLong(t *testing.T) {
	r := NewReader(ReaderOptions{Sink: &collectSink{}, MaxLineSize: 32})

	_, err := r.Read(context.Background(), "s", strings.NewReader(transferLine+"\n"))
	if err == nil {
		t.Fatal("expected error for oversized line")
	}
}

func TestReader_ContextCancelled(t *testing.T) {
	sink := &collectSink{}
	r := NewReader(ReaderOptions{Sink: sink})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Read(ctx, "s", strings.NewReader(transferLine+"\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(sink.envelopes) != 0 {
		t.Error("sink observed envelopes after cancellation")
	}
}

func TestReader_ReadFilesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "b.json", `{"network":"first","msg":[]}`+"\n")
	second := writeFile(t, dir, "a.json", `{"network":"second"}`+"\n"+`{"network":"third","msg":null}`)

	sink := &collectSink{}
	r := NewReader(ReaderOptions{Sink: sink})

	res, err := r.ReadFiles(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if res.Files != 2 || res.Envelopes != 3 {
		t.Errorf("result = %+v", res)
	}

	var got []string
	for _, env := range sink.envelopes {
		got = append(got, env.Network)
	}
	if strings.Join(got, ",") != "first,second,third" {
		t.Errorf("order = %v", got)
	}
}

func TestReader_MissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", transferLine+"\n")

	sink := &collectSink{}
	r := NewReader(ReaderOptions{Sink: sink})

	res, err := r.ReadFiles(context.Background(), []string{good, filepath.Join(dir, "missing.json")})
	if !errors.Is(err, ErrOpenInput) {
		t.Fatalf("error = %v, want ErrOpenInput", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want wrapped fs.ErrNotExist", err)
	}
	if res.Files != 1 || len(sink.envelopes) != 1 {
		t.Errorf("result = %+v, envelopes = %d", res, len(sink.envelopes))
	}
}
