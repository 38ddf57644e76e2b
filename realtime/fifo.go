package realtime

// fifo is a fixed-size circular buffer of interleaved samples. It's used
// by audio loop only, so it doesn't lock. Overflow discards the oldest
// samples.
type fifo struct {
	buf        []float32
	head, tail int64
}

func newFIFO(size int) *fifo {
	return &fifo{buf: make([]float32, size)}
}

// len returns number of buffered samples.
func (f *fifo) len() int {
	return int(f.tail - f.head)
}

// write appends samples and returns number of discarded samples.
func (f *fifo) write(p []float32) int {
	size := len(f.buf)
	discarded := 0
	if len(p) > size {
		discarded = len(p) - size
		p = p[discarded:]
	}
	if over := f.len() + len(p) - size; over > 0 {
		f.head += int64(over)
		discarded += over
	}
	tail := int(f.tail % int64(size))
	n := copy(f.buf[tail:], p)
	copy(f.buf, p[n:])
	f.tail += int64(len(p))
	return discarded
}

// read fills p with buffered samples and pads the rest with silence. It
// returns number of padded samples.
func (f *fifo) read(p []float32) int {
	avail := min(f.len(), len(p))
	head := int(f.head % int64(len(f.buf)))
	var n int
	if head+avail <= len(f.buf) {
		n = copy(p, f.buf[head:head+avail])
	} else {
		n = copy(p, f.buf[head:])
		n += copy(p[n:avail], f.buf[:avail-n])
	}
	f.head += int64(n)
	clear(p[n:])
	return len(p) - n
}

func (f *fifo) reset() {
	f.head, f.tail = 0, 0
}
