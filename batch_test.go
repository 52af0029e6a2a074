package colfmt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestReformatAll(t *testing.T) {
	spec := MustParsePattern("(DDD) DDD-DDDD", WithSpecOwner("en-US", KindPhone))
	rows := []string{
		"5551234567",
		"555-123-456",
		"555.123.4567",
		"555-12X-4567",
		"",
	}

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	results := ReformatAll(context.Background(), NewEngine(), spec, rows, BatchOptions{Workers: 3, Logger: &logger})
	if len(results) != len(rows) {
		t.Fatalf("got %d results, want %d", len(results), len(rows))
	}

	want := []struct {
		output string
		err    error
	}{
		{output: "(555) 123-4567"},
		{err: ErrLengthMismatch},
		{output: "(555) 123-4567"},
		{err: ErrInvalidCharacter},
		{err: ErrLengthMismatch},
	}
	for i, result := range results {
		if result.Row != i+1 || result.Input != rows[i] {
			t.Fatalf("result %d = row %d input %q, order must be preserved", i, result.Row, result.Input)
		}
		if want[i].err != nil {
			if !errors.Is(result.Err, want[i].err) {
				t.Fatalf("row %d: expected %v, got %v", result.Row, want[i].err, result.Err)
			}
			continue
		}
		if !result.OK() || result.Output != want[i].output {
			t.Fatalf("row %d = %q, %v", result.Row, result.Output, result.Err)
		}
	}

	if n := strings.Count(logs.String(), `"message":"row skipped"`); n != 3 {
		t.Fatalf("logged %d skipped rows, want 3:\n%s", n, logs.String())
	}
	if !strings.Contains(logs.String(), `"row":2`) || !strings.Contains(logs.String(), `"kind":"phone"`) {
		t.Fatalf("log lines missing row context:\n%s", logs.String())
	}

	summary := Summarize(results)
	if summary.Total != 5 || summary.OK != 2 || summary.Failed != 3 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.ByCause[ErrLengthMismatch] != 2 || summary.ByCause[ErrInvalidCharacter] != 1 {
		t.Fatalf("causes = %v", summary.ByCause)
	}
}

func TestReformatAllSequentialMatchesParallel(t *testing.T) {
	spec := MustParsePattern("DDD-DD-DDDD")
	values, err := NewEngine(WithEngineSource(NewSource(3))).Generate(spec, 200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	var rows []string
	for value := range values {
		rows = append(rows, strings.ReplaceAll(value, "-", ""))
	}

	sequential := ReformatAll(context.Background(), nil, spec, rows, BatchOptions{})
	parallel := ReformatAll(context.Background(), NewEngine(), spec, rows, BatchOptions{Workers: 8})

	for i := range rows {
		if sequential[i].Output != parallel[i].Output || sequential[i].Err != nil || parallel[i].Err != nil {
			t.Fatalf("row %d: sequential %q/%v parallel %q/%v",
				i+1, sequential[i].Output, sequential[i].Err, parallel[i].Output, parallel[i].Err)
		}
	}
}

type cancellingReformatter struct {
	cancel context.CancelFunc
	after  int32
	calls  atomic.Int32
}

func (c *cancellingReformatter) Reformat(value string, spec *FormatSpec) (string, error) {
	if c.calls.Add(1) == c.after {
		c.cancel()
	}
	return Reformat(value, spec)
}

func TestReformatAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	spec := MustParsePattern("DDDDD")
	rows := make([]string, 50)
	for i := range rows {
		rows[i] = "12345"
	}

	engine := &cancellingReformatter{cancel: cancel, after: 2}
	results := ReformatAll(ctx, engine, spec, rows, BatchOptions{Workers: 1})

	if !results[0].OK() || !results[1].OK() {
		t.Fatalf("rows before cancellation must succeed: %+v %+v", results[0], results[1])
	}
	if !errors.Is(results[len(results)-1].Err, context.Canceled) {
		t.Fatalf("last row: expected context.Canceled, got %v", results[len(results)-1].Err)
	}

	summary := Summarize(results)
	if summary.OK+summary.ByCause[context.Canceled] != summary.Total {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestReformatAllEmpty(t *testing.T) {
	results := ReformatAll(context.Background(), NewEngine(), MustParsePattern("DD"), nil, BatchOptions{})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
