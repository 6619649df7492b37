package threshold

import (
	"fmt"
	"reflect"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name         string
		height, size int
		workers      int
		want         []segment
	}{
		{
			name:   "single",
			height: 100, size: 16, workers: 1,
			want: []segment{{0, 100, 0, 100}},
		},
		{
			name:   "unsupported count runs single",
			height: 100, size: 16, workers: 4,
			want: []segment{{0, 100, 0, 100}},
		},
		{
			name:   "even split",
			height: 100, size: 16, workers: 2,
			want: []segment{{0, 66, 0, 50}, {34, 100, 50, 100}},
		},
		{
			name:   "odd height",
			height: 101, size: 16, workers: 2,
			want: []segment{{0, 66, 0, 50}, {34, 101, 50, 101}},
		},
		{
			name:   "overlap clipped",
			height: 17, size: 16, workers: 2,
			want: []segment{{0, 17, 0, 8}, {0, 17, 8, 17}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plan(tt.height, tt.size, tt.workers); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("plan(%d, %d, %d) = %v, want %v", tt.height, tt.size, tt.workers, got, tt.want)
			}
		})
	}
}

func TestPlanCommitsEveryRowOnce(t *testing.T) {
	for height := 2; height < 80; height++ {
		counts := make([]int, height)
		for _, seg := range plan(height, 8, 2) {
			if seg.commitFrom < seg.from || seg.commitTo > seg.to {
				t.Fatalf("height %d: committed rows %d..%d outside computed %d..%d",
					height, seg.commitFrom, seg.commitTo, seg.from, seg.to)
			}
			for y := seg.commitFrom; y < seg.commitTo; y++ {
				counts[y]++
			}
		}
		for y, n := range counts {
			if n != 1 {
				t.Fatalf("height %d: row %d committed %d times", height, y, n)
			}
		}
	}
}

type event struct {
	kind string
	x, y int
	on   bool
}

type recorder struct {
	geom   Geometry
	max    int
	events []event
}

func (r *recorder) Start(g Geometry, maxValue int) {
	r.geom, r.max = g, maxValue
}

func (r *recorder) Classified(x, y int, filled bool) {
	r.events = append(r.events, event{"classified", x, y, filled})
}

func (r *recorder) Edge(x, y int) {
	r.events = append(r.events, event{"edge", x, y, true})
}

func TestSequentialAndParallelAgree(t *testing.T) {
	tests := []struct{ w, h, window int }{
		{96, 64, 8},
		{96, 65, 8},
		{80, 33, 16},
		{70, 49, 48},
		{64, 99, 7},
		{50, 17, 16},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d/window=%d", tt.w, tt.h, tt.window), func(t *testing.T) {
			src := blobs(tt.w, tt.h, uint64(tt.h))

			run := func(workers int) (*Result, *recorder) {
				cfg := testConfig(tt.window)
				cfg.Workers = workers

				rec := &recorder{}
				res, err := mustEngine(t, cfg, WithObserver(rec)).Run(src)
				if err != nil {
					t.Fatalf("workers=%d: %v", workers, err)
				}
				return res, rec
			}

			seq, seqEvents := run(1)
			par, parEvents := run(2)

			diffBools(t, "filled", par.Filled, seq.Filled, tt.w)
			diffBools(t, "edges", par.Edges, seq.Edges, tt.w)

			if len(seqEvents.events) < tt.w*tt.h {
				t.Fatalf("observer saw %d events for %d pixels", len(seqEvents.events), tt.w*tt.h)
			}
			if !reflect.DeepEqual(seqEvents.events, parEvents.events) {
				t.Error("observer event order differs between sequential and parallel runs")
			}
			if seqEvents.geom != seq.Geometry || seqEvents.max != 255 {
				t.Errorf("Start got %+v/%d", seqEvents.geom, seqEvents.max)
			}
		})
	}
}

func TestObserverSeesEveryEdge(t *testing.T) {
	src := blobs(90, 70, 5)
	rec := &recorder{}

	res, err := mustEngine(t, testConfig(12), WithObserver(rec)).Run(src)
	if err != nil {
		t.Fatal(err)
	}

	seen := make([]bool, len(res.Edges))
	for _, ev := range rec.events {
		if ev.kind == "edge" {
			seen[ev.y*res.Width+ev.x] = true
		}
	}
	diffBools(t, "observed edges", seen, res.Edges, res.Width)
}
