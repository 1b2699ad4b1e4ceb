package acquisition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedFrame is returned when a stream message is neither an error
// frame nor a data frame carrying a channel list.
var ErrMalformedFrame = errors.New("malformed frame")

// Frame is one message of the live EEG stream. Samples[i] belongs to Channels[i].
type Frame struct {
	T0            float64     `json:"t0"`
	SFreq         float64     `json:"sfreq"`
	Channels      []string    `json:"channels"`
	Samples       [][]float64 `json:"samples"`
	Fatigue       float64     `json:"fatigue"`
	Quality       string      `json:"quality"`
	Alerts        []string    `json:"alerts"`
	ChunkSeconds  float64     `json:"chunk_seconds"`
	WindowSeconds float64     `json:"window_seconds"`
	Error         string      `json:"error,omitempty"`
}

// IsError reports whether the frame is an error signal rather than data.
func (f *Frame) IsError() bool {
	return f.Error != ""
}

// SamplesFor returns the samples of the first channel matching electrode, or nil.
func (f *Frame) SamplesFor(electrode string) []float64 {
	idx := FindChannel(f.Channels, electrode)
	if idx < 0 || idx >= len(f.Samples) {
		return nil
	}
	return f.Samples[idx]
}

// DecodeFrame parses one stream message.
func DecodeFrame(data []byte) (*Frame, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedFrame
	}
	var f Frame
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if !f.IsError() && f.Channels == nil {
		return nil, fmt.Errorf("%w: missing channels", ErrMalformedFrame)
	}
	return &f, nil
}
