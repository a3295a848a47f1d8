// Package delay provides a fixed-capacity delay line.
package delay

// Line implements a circular delay buffer with integer sample taps.
// Capacity is fixed at construction; history that has not been written
// yet reads as zero.
type Line struct {
	buffer   []float32
	capacity int
	writePos int
}

// New creates a delay line able to serve taps up to capacity-1 samples back.
func New(capacity int) *Line {
	if capacity < 1 {
		capacity = 1
	}
	return &Line{
		buffer:   make([]float32, capacity),
		capacity: capacity,
	}
}

// Capacity returns the buffer capacity in samples.
func (d *Line) Capacity() int {
	return d.capacity
}

// Reset clears the delay buffer.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Write adds a sample to the delay line.
func (d *Line) Write(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= d.capacity {
		d.writePos = 0
	}
}

// Tap reads the sample written offset samples ago. Offset 0 is the most
// recently written sample. Offsets outside [0, capacity) are clamped to
// the newest and oldest samples respectively.
func (d *Line) Tap(offset int) float32 {
	if offset < 0 {
		offset = 0
	} else if offset >= d.capacity {
		offset = d.capacity - 1
	}
	readPos := d.writePos - 1 - offset
	if readPos < 0 {
		readPos += d.capacity
	}
	return d.buffer[readPos]
}

// Process writes each input sample and reads back with a fixed offset,
// so output[n] = input[n-offset] - no allocations.
func (d *Line) Process(input, output []float32, offset int) {
	for i := range input {
		d.Write(input[i])
		output[i] = d.Tap(offset)
	}
}

// ProcessVar is Process with a per-sample offset - no allocations.
// offsets must be the same length as input.
func (d *Line) ProcessVar(input, output []float32, offsets []int) {
	for i := range input {
		d.Write(input[i])
		output[i] = d.Tap(offsets[i])
	}
}
