package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kraitsura/bpwatch/pkg/breakpoints"
	"github.com/kraitsura/bpwatch/pkg/metrics"
	"github.com/kraitsura/bpwatch/pkg/viewport"
)

func TestRulerSegments(t *testing.T) {
	r := NewRuler(breakpoints.Default)
	r.Marker = 1000

	segs := r.Segments()
	if len(segs) != 4 {
		t.Fatalf("Expected 4 segments, got %d", len(segs))
	}
	if segs[0].X != 0 {
		t.Errorf("first segment starts at %d", segs[0].X)
	}
	last := segs[len(segs)-1]
	if last.X+last.Width != r.Width {
		t.Errorf("last segment ends at %d, want %d", last.X+last.Width, r.Width)
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].X != segs[i-1].X+segs[i-1].Width {
			t.Errorf("gap between %s and %s", segs[i-1].Name, segs[i].Name)
		}
	}
	for _, s := range segs {
		if s.Active != (s.Name == "md") {
			t.Errorf("segment %s active = %v", s.Name, s.Active)
		}
	}
}

func TestRulerScaleIncludesMarker(t *testing.T) {
	r := NewRuler(breakpoints.Default)
	r.Marker = 5000
	if got := r.x(r.Marker); got >= r.Width {
		t.Errorf("marker x %d is off the image (width %d)", got, r.Width)
	}
}

func TestWriteSVG(t *testing.T) {
	r := NewRuler(breakpoints.Default)
	r.Marker = 700

	var buf bytes.Buffer
	if err := r.WriteSVG(&buf); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Fatalf("not an svg document: %.80s", out)
	}
	for _, name := range breakpoints.Default.Names() {
		if !strings.Contains(out, ">"+name+"<") {
			t.Errorf("missing label %s", name)
		}
	}
	if !strings.Contains(out, "<line") {
		t.Error("missing marker line")
	}
}

func TestWritePNG(t *testing.T) {
	r := NewRuler(breakpoints.Terminal)
	r.Width, r.Height = 320, 60
	r.Marker = 120

	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 60 {
		t.Errorf("bounds = %v", b)
	}
}

func newTestServer(t *testing.T) (*Server, *breakpoints.Tracker) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)
	width := 500
	tr := breakpoints.New(nil, viewport.Func(func() int { return width }), breakpoints.Options{
		Observers: []breakpoints.Observer{rec},
	}).Init(breakpoints.Default)
	width = 1000
	tr.Refresh()
	return NewServer("127.0.0.1:0", reg, TrackerStatus(tr), nil), tr
}

func TestServerHandler(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", resp.Header.Get("Cache-Control"))
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Breakpoint != "md" || st.Width != 1000 || len(st.Thresholds) != 4 {
		t.Errorf("status = %+v", st)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `bpwatch_crossings_total{breakpoint="md",direction="up"} 1`) {
		t.Errorf("metrics output missing crossing counter:\n%s", body)
	}
}

func TestServerRunShutsDown(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerRunBadAddr(t *testing.T) {
	s := NewServer("256.0.0.1:bad", prometheus.NewRegistry(), nil, nil)
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("Expected listen error")
	}
}
