package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/readlite/readlite/model"
)

func testResult(words int) *model.ExtractionResult {
	var sb strings.Builder
	for i := 0; i < words/8; i++ {
		sb.WriteString("The river kept moving under the old bridge.\n\n")
	}
	return &model.ExtractionResult{
		Text:     strings.TrimSpace(sb.String()),
		Metadata: model.Metadata{WordCount: words},
	}
}

func testRequest(id string, bionic bool) Request {
	return Request{
		DocumentID:     id,
		Result:         testResult(400),
		ViewportWidth:  390,
		ViewportHeight: 844,
		FontSize:       20,
		Bionic:         bionic,
	}
}

func TestProcess(t *testing.T) {
	p := New()
	out, err := p.Process(context.Background(), testRequest("doc1", false))
	if err != nil {
		t.Fatal(err)
	}
	if out.IsPageMode {
		t.Fatal("unexpected page mode")
	}
	if len(out.Sections) == 0 {
		t.Fatal("no sections produced")
	}
	for i, s := range out.Sections {
		if s.ID != i {
			t.Errorf("section %d has ID %d", i, s.ID)
		}
		if s.IsBionic {
			t.Error("IsBionic set without bionic mode")
		}
		if !strings.HasPrefix(s.Processed, "<p>") || !strings.HasSuffix(s.Processed, "</p>") {
			t.Errorf("section %d not paragraph-wrapped: %.40q", i, s.Processed)
		}
		if s.Processed != s.RegularFormatted {
			t.Errorf("section %d processed differs from regular in plain mode", i)
		}
	}
}

func TestProcessBionic(t *testing.T) {
	p := New()
	out, err := p.Process(context.Background(), testRequest("doc1", true))
	if err != nil {
		t.Fatal(err)
	}
	s := out.Sections[0]
	if !s.IsBionic {
		t.Error("IsBionic not set")
	}
	if !strings.Contains(s.Processed, "<b>") {
		t.Errorf("no emphasis markup in %.60q", s.Processed)
	}
	if strings.Contains(s.RegularFormatted, "<b>") {
		t.Error("RegularFormatted must stay unemphasized")
	}
}

func TestProcessCaches(t *testing.T) {
	p := New()
	req := testRequest("doc1", false)

	first, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected cached output on second call")
	}

	// A different font size is a different cache key.
	req.FontSize = 24
	third, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Error("font size change must not reuse the cached output")
	}

	p.Invalidate("doc1")
	fourth, err := p.Process(context.Background(), testRequest("doc1", false))
	if err != nil {
		t.Fatal(err)
	}
	if fourth == first {
		t.Error("Invalidate did not drop the cached output")
	}
}

func TestProcessSingleFlight(t *testing.T) {
	p := New()
	req := testRequest("doc1", false)

	const callers = 8
	outs := make([]*Output, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := p.Process(context.Background(), req)
			if err != nil {
				t.Error(err)
				return
			}
			outs[i] = out
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if outs[i] != outs[0] {
			t.Fatal("concurrent callers received different outputs")
		}
	}
}

func TestProcessPageMode(t *testing.T) {
	p := New()
	out, err := p.Process(context.Background(), Request{
		DocumentID: "doc1",
		Result:     &model.ExtractionResult{ExtractionFailed: true, Message: "no text"},
		FontSize:   20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsPageMode {
		t.Error("expected page mode for failed extraction")
	}
	if len(out.Sections) != 0 {
		t.Error("page mode must carry no sections")
	}
}

func TestProcessCanceled(t *testing.T) {
	p := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Process(ctx, testRequest("doc1", false)); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestProcessCancelOnlyAbandonsCanceler(t *testing.T) {
	p := New(WithBatchSize(1))
	req := Request{
		DocumentID:     "doc1",
		Result:         testResult(40000),
		ViewportWidth:  390,
		ViewportHeight: 844,
		FontSize:       20,
	}

	ctx, cancel := context.WithCancel(context.Background())
	initiator := make(chan error, 1)
	go func() {
		_, err := p.Process(ctx, req)
		initiator <- err
	}()

	// Let the initiator start the flight, join it with a live context,
	// then cancel the initiator while the computation is under way.
	time.Sleep(5 * time.Millisecond)
	var out *Output
	waiter := make(chan error, 1)
	go func() {
		o, err := p.Process(context.Background(), req)
		out = o
		waiter <- err
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	if err := <-waiter; err != nil {
		t.Fatalf("waiter with live context got error: %v", err)
	}
	if out == nil || len(out.Sections) == 0 {
		t.Fatal("waiter received no sections")
	}
	if err := <-initiator; err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("initiator error = %v, want nil or context.Canceled", err)
	}
}

func TestProcessNilResult(t *testing.T) {
	p := New()
	if _, err := p.Process(context.Background(), Request{DocumentID: "x"}); err == nil {
		t.Error("expected error for missing extraction result")
	}
}
