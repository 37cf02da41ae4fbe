package control

import "io"

// ChunkSize is the read size for the control stream.
const ChunkSize = 8192

// Chunk is one read from the control stream. The last chunk carries the
// error that ended the stream, io.EOF included.
type Chunk struct {
	Data []byte
	Err  error
}

// ReadChunks reads r on a new goroutine until it fails. The channel is
// closed after the final chunk.
func ReadChunks(r io.Reader) <-chan Chunk {
	ch := make(chan Chunk, 4)
	go func() {
		defer close(ch)
		for {
			buf := make([]byte, ChunkSize)
			n, err := r.Read(buf)
			if n > 0 {
				ch <- Chunk{Data: buf[:n]}
			}
			if err != nil {
				ch <- Chunk{Err: err}
				return
			}
		}
	}()
	return ch
}
