package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// MinSelection is the shortest span, in seconds, the two handles may enclose.
const MinSelection = 0.5

// SkipSeconds is the jump applied by the skip controls.
const SkipSeconds = 5.0

// SpeedLadder lists the playback rates in order. Stepping clamps at both ends.
var SpeedLadder = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

const normalRateIndex = 3

var (
	// ErrNotFound is returned when the trim session does not exist or expired.
	ErrNotFound = errors.New("trim session not found")
	// ErrInvalidVideo is returned when a session is opened without a usable video.
	ErrInvalidVideo = errors.New("invalid video")
	// ErrInvalidAction is returned for unknown actions or actions missing their arguments.
	ErrInvalidAction = errors.New("invalid editor action")
)

// Editor is the selection state of one video being trimmed. Times are in seconds.
type Editor struct {
	ID        string    `json:"id"`
	VideoURL  string    `json:"video_url"`
	Duration  float64   `json:"duration"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Position  float64   `json:"position"`
	Playing   bool      `json:"playing"`
	RateIndex int       `json:"rate_index"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEditor opens a video with the whole duration selected.
func NewEditor(id, videoURL string, duration float64, now time.Time) (*Editor, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, fmt.Errorf("%w: video_url is required", ErrInvalidVideo)
	}
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < MinSelection {
		return nil, fmt.Errorf("%w: duration must be at least %.1f seconds", ErrInvalidVideo, MinSelection)
	}
	return &Editor{
		ID:        id,
		VideoURL:  videoURL,
		Duration:  duration,
		End:       duration,
		RateIndex: normalRateIndex,
		CreatedAt: now.UTC(),
	}, nil
}

// Rate is the current playback speed.
func (e *Editor) Rate() float64 {
	return SpeedLadder[e.rateIndex()]
}

func (e *Editor) rateIndex() int {
	return clampInt(e.RateIndex, 0, len(SpeedLadder)-1)
}

// Play starts playback, rewinding to the selection start when the cursor sits outside it.
func (e *Editor) Play() {
	if e.Position < e.Start || e.Position >= e.End {
		e.Position = e.Start
	}
	e.Playing = true
}

// Pause stops playback where it is.
func (e *Editor) Pause() {
	e.Playing = false
}

// Skip moves the cursor by delta seconds within the video.
func (e *Editor) Skip(delta float64) {
	e.Position = clamp(e.Position+delta, 0, e.Duration)
}

// Seek moves the cursor to t.
func (e *Editor) Seek(t float64) {
	e.Position = clamp(t, 0, e.Duration)
}

// SpeedUp steps one rung up the ladder.
func (e *Editor) SpeedUp() {
	e.RateIndex = clampInt(e.rateIndex()+1, 0, len(SpeedLadder)-1)
}

// SpeedDown steps one rung down the ladder.
func (e *Editor) SpeedDown() {
	e.RateIndex = clampInt(e.rateIndex()-1, 0, len(SpeedLadder)-1)
}

// DragStart moves the start handle, keeping MinSelection before the end handle.
func (e *Editor) DragStart(t float64) {
	e.Start = clamp(t, 0, e.End-MinSelection)
}

// DragEnd moves the end handle, keeping MinSelection after the start handle.
func (e *Editor) DragEnd(t float64) {
	e.End = clamp(t, e.Start+MinSelection, e.Duration)
}

// OffsetToTime maps a pixel offset on a timeline of the given width to seconds.
func (e *Editor) OffsetToTime(offset, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return clamp(offset/width, 0, 1) * e.Duration
}

// Fractions returns the handles as fractions of the duration.
func (e *Editor) Fractions() (start, end float64) {
	return e.Start / e.Duration, e.End / e.Duration
}

// Advance records the player's cursor. Reaching the end handle while playing
// pauses and rewinds to the start handle. It reports whether that happened.
func (e *Editor) Advance(position float64) bool {
	e.Position = clamp(position, 0, e.Duration)
	if e.Playing && e.Position >= e.End {
		e.Playing = false
		e.Position = e.Start
		return true
	}
	return false
}

// Submit hands off the selection. No encoding happens here.
func (e *Editor) Submit() Selection {
	return Selection{
		VideoURL:  e.VideoURL,
		StartTime: e.Start,
		EndTime:   e.End,
	}
}

// State is the editor plus the derived values a timeline needs.
func (e *Editor) State() State {
	start, end := e.Fractions()
	return State{
		Editor:        *e,
		Rate:          e.Rate(),
		StartFraction: start,
		EndFraction:   end,
		CanSpeedUp:    e.rateIndex() < len(SpeedLadder)-1,
		CanSpeedDown:  e.rateIndex() > 0,
	}
}

// State is returned to clients after every action.
type State struct {
	Editor
	Rate          float64 `json:"rate"`
	StartFraction float64 `json:"start_fraction"`
	EndFraction   float64 `json:"end_fraction"`
	CanSpeedUp    bool    `json:"can_speed_up"`
	CanSpeedDown  bool    `json:"can_speed_down"`
}

// Selection is what the next step receives.
type Selection struct {
	VideoURL  string  `json:"video_url"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
