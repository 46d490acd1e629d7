package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Veraticus/bikeshare/internal/common"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader provides context-aware line reading that can be interrupted.
type LineReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewLineReader creates a new line reader.
func NewLineReader(reader io.Reader) *LineReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &LineReader{
		reader: bufio.NewReader(reader),
	}
}

// ReadLine reads one trimmed line. A final line without a newline is returned normally;
// after that, reads fail with common.ErrInputClosed.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInputCancelled, err)
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The reading goroutine finishes on its own once input arrives.
		return "", fmt.Errorf("%w: %w", ErrInputCancelled, ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				if res.value != "" {
					return strings.TrimSpace(res.value), nil
				}
				return "", common.ErrInputClosed
			}
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
