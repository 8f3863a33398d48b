package sheet

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// warmChunkSize is the span each warm task touches before yielding.
const warmChunkSize int64 = 4 << 20

// pageSize matches the common page granularity; touching one byte per
// page is enough to fault the page in.
const pageSize = 4096

// Warm faults the session's pages into memory, touching one byte per
// page across parallel chunks. It lets a host pay the page-fault cost up
// front, off its latency-sensitive path, instead of during the first
// window queries over a cold file.
//
// workers bounds the number of concurrent chunk tasks; values below 1
// run serially. Warm honors ctx between chunks and returns its error on
// cancellation. It is safe to run concurrently with queries.
func (s *Session) Warm(ctx context.Context, workers int) error {
	size := s.src.Len()
	if size == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	begin := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for off := int64(0); off < size; off += warmChunkSize {
		start := off
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			end := min(start+warmChunkSize, size)
			chunk := s.src.Slice(start, end)
			var sink byte
			for i := 0; i < len(chunk); i += pageSize {
				sink ^= chunk[i]
			}
			_ = sink
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	s.log().Debug("session warmed",
		"bytes", size,
		"workers", workers,
		"elapsed", time.Since(begin),
	)
	return nil
}
