package utils

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration reads a video's duration in seconds via ffprobe. The object
// store keeps no media metadata, so the duration is recovered before upload.
func ProbeDuration(videoPath string) (float64, error) {
	raw, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return 0, errors.WithMessage(err, "ffprobe failed")
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return 0, errors.WithMessage(err, "failed to parse ffprobe output")
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "ffprobe returned no duration")
	}
	return duration, nil
}
