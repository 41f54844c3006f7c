package qrscan

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// ImagePrefix marks a source line that names an image file rather than a
// raw payload, e.g. "@/tmp/gym.png".
const ImagePrefix = "@"

// Source yields scanned payloads until it returns io.EOF.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// LineSource reads one payload per line. Blank lines are skipped and lines
// starting with ImagePrefix are decoded from the named image.
type LineSource struct {
	sc *bufio.Scanner
}

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{sc: bufio.NewScanner(r)}
}

func (s *LineSource) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}

		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		if path, ok := strings.CutPrefix(line, ImagePrefix); ok {
			return DecodeFile(strings.TrimSpace(path))
		}
		return line, nil
	}
}

// Static yields the given payloads in order.
type Static []string

func (s *Static) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(*s) == 0 {
		return "", io.EOF
	}
	p := (*s)[0]
	*s = (*s)[1:]
	return p, nil
}
