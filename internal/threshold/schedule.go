package threshold

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// segment is one worker's share of the rows. Rows in [from, to) are computed,
// rows in [commitFrom, commitTo) are written to the shared buffer.
type segment struct {
	from, to             int
	commitFrom, commitTo int
}

// plan splits height rows between workers. Two workers split at height/2 and
// each computes up to size rows past its committed range; every other count
// runs one segment over the whole image.
func plan(height, size, workers int) []segment {
	if workers != 2 {
		return []segment{{from: 0, to: height, commitFrom: 0, commitTo: height}}
	}

	mid := height / 2
	return []segment{
		{from: 0, to: min(height, mid+size), commitFrom: 0, commitTo: mid},
		{from: max(0, mid-size), to: height, commitFrom: mid, commitTo: height},
	}
}

// execute classifies every row and marks the edges. A single segment marks
// edges inline. Several segments run concurrently and the edge pass follows
// the join, so the observer sees the same event order either way and is
// never called from two goroutines.
func execute[S Sampler, O Observer](j *job, s S, o O, segs []segment) error {
	if len(segs) == 1 {
		if err := guard(0, func() { runSegment(j, s, o, segs[0], true) }); err != nil {
			return err
		}
		flushEdges(j, o)
		return nil
	}

	var g errgroup.Group
	for i, seg := range segs {
		g.Go(func() error {
			return guard(i, func() { runSegment(j, s, nopObserver{}, seg, false) })
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for y := 0; y < j.geom.Height; y++ {
		finishRow(j, o, y)
	}
	flushEdges(j, o)
	return nil
}

func guard(worker int, fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: worker %d: %v", ErrWorkerFailed, worker, p)
		}
	}()

	fn()
	return nil
}
