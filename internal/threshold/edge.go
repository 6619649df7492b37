package threshold

// Edge marking runs two rows behind classification: once row y is classified
// the 8-neighbourhood of row y-2 is complete. The outermost rows and columns
// never have a full neighbourhood and are never edges.

// finishRow reports row y to the observer and marks row y-2.
func finishRow[O Observer](j *job, o O, y int) {
	w := j.geom.Width
	for x, f := range j.filled[y*w : (y+1)*w] {
		o.Classified(x, y, f)
	}

	if ey := y - 2; ey >= 1 {
		markRow(j, o, ey)
	}
}

// flushEdges marks the row still pending after the last row is classified.
func flushEdges[O Observer](j *job, o O) {
	if ey := j.geom.Height - 2; ey >= 1 {
		markRow(j, o, ey)
	}
}

// markRow sets edges for every filled pixel of row y whose neighbourhood
// contains a blank pixel.
func markRow[O Observer](j *job, o O, y int) {
	w := j.geom.Width
	f := j.filled

	for x := 1; x < w-1; x++ {
		i := y*w + x
		if !f[i] {
			continue
		}

		if !f[i-w-1] || !f[i-w] || !f[i-w+1] ||
			!f[i-1] || !f[i+1] ||
			!f[i+w-1] || !f[i+w] || !f[i+w+1] {
			j.edges[i] = true
			o.Edge(x, y)
		}
	}
}
