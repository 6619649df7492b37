package threshold

// job is the state shared by the workers of one computation. Workers write
// filled only inside their committed rows; edges is written after the join.
type job struct {
	geom   Geometry
	size   int
	offset int

	// colSpan and rowSpan hold the clipped window extent per column and per
	// row. Their product is the divisor of the local mean.
	colSpan []int
	rowSpan []int

	filled []bool
	edges  []bool

	// thresholds records every committed threshold when non-nil.
	thresholds []int
}

func newJob(g Geometry, size, offset int) *job {
	n := g.Width * g.Height
	return &job{
		geom:    g,
		size:    size,
		offset:  offset,
		colSpan: spans(g.Width, size),
		rowSpan: spans(g.Height, size),
		filled:  make([]bool, n),
		edges:   make([]bool, n),
	}
}

// spans returns, for every index of an axis of length n > size, the number of
// window cells that fall inside the axis. The window of index i covers
// [i-r, i-r+size) with r = size/2, so the axis splits into a leading band
// (i <= r) clipped at 0, a trailing band (i >= n-size+r+1) clipped at n, and
// the full-size middle.
func spans(n, size int) []int {
	r := size / 2
	out := make([]int, n)
	for i := range out {
		switch {
		case i <= r:
			out[i] = i - r + size
		case i >= n-size+r+1:
			out[i] = n - i + r
		default:
			out[i] = size
		}
	}
	return out
}

// window is the private running-sum scratch of one worker.
//
// strips is a ring of size rows; strips[row%size][x] is the horizontal sum of
// row over the clipped columns of the window of x. ts[x] is the sum of the
// strips of the rows inside the window of the current row.
type window struct {
	w, h   int
	size   int
	r      int
	strips [][]int
	ts     []int
}

func newWindow(w, h, size int) *window {
	strips := make([][]int, size)
	for i := range strips {
		strips[i] = make([]int, w)
	}
	return &window{w: w, h: h, size: size, r: size / 2, strips: strips, ts: make([]int, w)}
}

func (win *window) strip(row int) []int { return win.strips[row%win.size] }

// fillStrip computes the strip sums of row into dst. Only column 0 is summed
// from scratch; every later column adds the entering column and drops the
// leaving one, split by band so the inner loop carries no bounds tests.
func fillStrip[S Sampler](win *window, s S, row int, dst []int) {
	w, r, size := win.w, win.r, win.size

	sum := 0
	for c := 0; c < size-r; c++ {
		sum += s.At(c, row)
	}
	dst[0] = sum

	x := 1
	for ; x <= r; x++ {
		sum += s.At(x-r+size-1, row)
		dst[x] = sum
	}
	for ; x <= w-size+r; x++ {
		sum += s.At(x-r+size-1, row) - s.At(x-r-1, row)
		dst[x] = sum
	}
	for ; x < w; x++ {
		sum -= s.At(x-r-1, row)
		dst[x] = sum
	}
}

// seed rebuilds ts for row y from scratch.
func seed[S Sampler](win *window, s S, y int) {
	clear(win.ts)

	lo, hi := max(0, y-win.r), min(win.h, y-win.r+win.size)
	for row := lo; row < hi; row++ {
		dst := win.strip(row)
		fillStrip(win, s, row, dst)
		for x, v := range dst {
			win.ts[x] += v
		}
	}
}

// advance moves ts from row y-1 to row y. The leaving and entering rows share
// a ring slot, so the leaving strip is subtracted before it is overwritten.
func advance[S Sampler](win *window, s S, y int) {
	if leave := y - win.r - 1; leave >= 0 {
		for x, v := range win.strip(leave) {
			win.ts[x] -= v
		}
	}

	if enter := y - win.r + win.size - 1; enter < win.h {
		dst := win.strip(enter)
		fillStrip(win, s, enter, dst)
		for x, v := range dst {
			win.ts[x] += v
		}
	}
}

// classifyRow marks pixel (x, y) filled when its own sample is strictly below
// the clipped window mean minus the offset.
func classifyRow[S Sampler](j *job, win *window, s S, y int) {
	w := j.geom.Width
	rows := j.rowSpan[y]
	filled := j.filled[y*w : (y+1)*w]

	var record []int
	if j.thresholds != nil {
		record = j.thresholds[y*w : (y+1)*w]
	}

	for x := range filled {
		thr := win.ts[x]/(j.colSpan[x]*rows) - j.offset
		filled[x] = s.At(x, y) < thr
		if record != nil {
			record[x] = thr
		}
	}
}

// runSegment computes rows [seg.from, seg.to) and classifies the committed
// ones. With inline set the edge marker follows each committed row.
func runSegment[S Sampler, O Observer](j *job, s S, o O, seg segment, inline bool) {
	win := newWindow(j.geom.Width, j.geom.Height, j.size)

	for y := seg.from; y < seg.to; y++ {
		if y == seg.from {
			seed(win, s, y)
		} else {
			advance(win, s, y)
		}

		if seg.commitFrom <= y && y < seg.commitTo {
			classifyRow(j, win, s, y)
			if inline {
				finishRow(j, o, y)
			}
		}
	}
}
