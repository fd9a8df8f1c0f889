// Package ffmpeg wraps the ffmpeg binary for single-frame decoding of
// session recordings.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ExtractFrame decodes the frame nearest to offsetMs and returns it as
// JPEG bytes. An empty result with a nil error never occurs; a seek past
// the end of the recording yields an error.
func ExtractFrame(ctx context.Context, binary string, path string, offsetMs int64) ([]byte, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ffmpeg extract: empty path")
	}

	offset := strconv.FormatFloat(float64(offsetMs)/1000.0, 'f', 3, 64)
	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-hide_banner",
		"-ss", offset,
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg extract at %sms: %w: %s", strconv.FormatInt(offsetMs, 10), err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg extract at %dms: no frame decoded", offsetMs)
	}
	return stdout.Bytes(), nil
}
