package domain

import "fmt"

// ActionType names an editor control.
type ActionType string

const (
	ActionPlay      ActionType = "play"
	ActionPause     ActionType = "pause"
	ActionSkip      ActionType = "skip"
	ActionSpeedUp   ActionType = "speed_up"
	ActionSpeedDown ActionType = "speed_down"
	ActionDragStart ActionType = "drag_start"
	ActionDragEnd   ActionType = "drag_end"
	ActionSeek      ActionType = "seek"
	ActionTick      ActionType = "tick"
)

// Action is one user or player event.
// Time is in seconds. Drags may instead carry a pixel Offset on a timeline of Width pixels.
// Skip uses Time as the signed delta and defaults to SkipSeconds forward.
type Action struct {
	Type   ActionType `json:"type"`
	Time   *float64   `json:"time,omitempty"`
	Offset *float64   `json:"offset,omitempty"`
	Width  float64    `json:"width,omitempty"`
}

// Apply runs the action against the editor.
func (e *Editor) Apply(a Action) error {
	switch a.Type {
	case ActionPlay:
		e.Play()
	case ActionPause:
		e.Pause()
	case ActionSkip:
		delta := SkipSeconds
		if a.Time != nil {
			delta = *a.Time
		}
		e.Skip(delta)
	case ActionSpeedUp:
		e.SpeedUp()
	case ActionSpeedDown:
		e.SpeedDown()
	case ActionDragStart:
		t, err := e.target(a)
		if err != nil {
			return err
		}
		e.DragStart(t)
	case ActionDragEnd:
		t, err := e.target(a)
		if err != nil {
			return err
		}
		e.DragEnd(t)
	case ActionSeek:
		t, err := e.target(a)
		if err != nil {
			return err
		}
		e.Seek(t)
	case ActionTick:
		if a.Time == nil {
			return fmt.Errorf("%w: tick requires time", ErrInvalidAction)
		}
		e.Advance(*a.Time)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, a.Type)
	}
	return nil
}

func (e *Editor) target(a Action) (float64, error) {
	switch {
	case a.Time != nil:
		return *a.Time, nil
	case a.Offset != nil && a.Width > 0:
		return e.OffsetToTime(*a.Offset, a.Width), nil
	}
	return 0, fmt.Errorf("%w: %s requires time or offset and width", ErrInvalidAction, a.Type)
}
