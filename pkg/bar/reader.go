package bar

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// maxLineBytes bounds a single read line. Longer lines are an error of the
// reader, shorter lines over the input limit are rejected by the segmenter.
const maxLineBytes = 1 << 16

// ReadLines calls fn for every non-empty line of r until r is exhausted or
// ctx is done. A trailing carriage return is dropped. An error from fn stops
// the reader and is returned.
func ReadLines(ctx context.Context, r io.Reader, fn func(line string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
		for sc.Scan() {
			line := strings.TrimSuffix(sc.Text(), "\r")
			if line == "" {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			if err := fn(line); err != nil {
				return err
			}
		}
	}
}

// FirstLine returns the first non-empty line of the file at path.
func FirstLine(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer func() { _ = f.Close() }()

	var first string
	err = ReadLines(context.Background(), f, func(line string) error {
		first = line
		return io.EOF
	})
	if err != nil && err != io.EOF {
		return "", err
	}
	return first, nil
}
