package threshold

// Sampler maps an output coordinate to a source intensity. Callers stay
// inside the resolved geometry; implementations do no bounds checking of
// their own.
type Sampler interface {
	At(x, y int) int
}

// sourceSampler reads an arbitrary Source one to one.
type sourceSampler struct {
	src Source
}

func (s sourceSampler) At(x, y int) int { return s.src.Intensity(x, y) }

// nearestSampler skips source pixels.
type nearestSampler struct {
	src   Source
	scale float64
}

func (s nearestSampler) At(x, y int) int {
	return s.src.Intensity(int(float64(x)*s.scale), int(float64(y)*s.scale))
}

// averageSampler averages a cross of 2*span+1 pixels along the row and
// 2*span+1 along the column, centred on the nearest source pixel. The first
// row and column fall back to the nearest pixel because the cross would
// reach past the top or left border.
type averageSampler struct {
	src   Source
	scale float64
	span  int
}

func (s averageSampler) At(x, y int) int {
	sx, sy := int(float64(x)*s.scale), int(float64(y)*s.scale)
	if x == 0 || y == 0 || s.span == 0 {
		return s.src.Intensity(sx, sy)
	}

	sum := 0
	for i := -s.span; i <= s.span; i++ {
		sum += s.src.Intensity(sx+i, sy)
		sum += s.src.Intensity(sx, sy+i)
	}
	return sum / (2 * (2*s.span + 1))
}
