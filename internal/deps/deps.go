// Package deps reports availability of the external binaries gymforge
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"gymforge/internal/config"
)

// Requirement defines an external dependency gymforge relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements derives the binary requirements from configuration.
// Tesseract is only required when the augmentation stages are enabled,
// since structured-data annotation is the sole OCR consumer.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Video.FFmpegBinary,
			Description: "Extracts still frames from session recordings",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Video.FFprobeBinary,
			Description: "Reads recording duration and stream metadata",
		},
		{
			Name:        "Tesseract",
			Command:     cfg.OCR.TesseractBinary,
			Description: "OCR for structured-data annotation",
			Optional:    !cfg.Augment.Enabled,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the subset of statuses that are both required
// and unavailable.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
