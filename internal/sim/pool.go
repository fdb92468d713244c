package sim

import "sync"

// FramePool recycles fixed-size sample buffers for hosts that sample the
// surface every frame.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(size int) *FramePool {
	return &FramePool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *FramePool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put zeroes buf and returns it to the pool. Buffers of the wrong size are
// dropped.
func (p *FramePool) Put(buf []float64) {
	if len(buf) != p.size {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	p.pool.Put(buf)
}

func (p *FramePool) Size() int { return p.size }
