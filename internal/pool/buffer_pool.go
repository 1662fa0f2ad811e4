package pool

import "sync"

// BufferPool implements a pool of byte slices used as scratch space by the transformers.
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a new buffer pool with buffers of the specified initial capacity
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, 0, size)
				return &buffer
			},
		},
		size: size,
	}
}

// Get retrieves an empty buffer with at least n bytes of capacity
func (bp *BufferPool) Get(n int) *[]byte {
	buffer := bp.pool.Get().(*[]byte)
	if cap(*buffer) < n {
		*buffer = make([]byte, 0, n)
	}
	*buffer = (*buffer)[:0]
	return buffer
}

// Put returns a buffer to the pool for reuse.
// Buffers that grew far beyond the pool size are dropped so one large input
// does not pin memory for the life of the process.
func (bp *BufferPool) Put(buffer *[]byte) {
	if cap(*buffer) > maxRetained(bp.size) {
		return
	}
	*buffer = (*buffer)[:0]
	bp.pool.Put(buffer)
}

func maxRetained(size int) int {
	const floor = 64 * 1024
	if size*16 > floor {
		return size * 16
	}
	return floor
}
