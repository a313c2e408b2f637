package engine

import "time"

// eventLog records every controller notification for the caller and forwards
// it to the engine's external listeners.
type eventLog struct {
	events   []Event
	lastWalk []Cell
	forward  MultiListener
	now      func() time.Time
}

func newEventLog() *eventLog {
	return &eventLog{now: time.Now}
}

func (l *eventLog) record(t EventType, unit UnitID, cells []Cell) {
	l.events = append(l.events, Event{
		Type:      t,
		Unit:      unit,
		Cells:     append([]Cell(nil), cells...),
		Timestamp: l.now(),
	})
}

func (l *eventLog) ShowReachable(cells []Cell) {
	l.record(EventShowReachable, "", cells)
	l.forward.ShowReachable(cells)
}

func (l *eventLog) ShowPath(path []Cell) {
	l.record(EventShowPath, "", path)
	l.forward.ShowPath(path)
}

func (l *eventLog) ClearOverlays() {
	l.record(EventClearOverlays, "", nil)
	l.forward.ClearOverlays()
}

func (l *eventLog) Walk(unit UnitID, waypoints []Cell) {
	l.lastWalk = append([]Cell(nil), waypoints...)
	l.record(EventWalk, unit, waypoints)
	l.forward.Walk(unit, waypoints)
}

// drain returns the recorded events and empties the log
func (l *eventLog) drain() []Event {
	out := l.events
	l.events = nil
	if out == nil {
		return []Event{}
	}
	return out
}
