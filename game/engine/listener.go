package engine

// Listener receives the controller's outbound notifications. Implementations
// must not call back into the controller.
type Listener interface {
	ShowReachable(cells []Cell)
	ShowPath(path []Cell)
	ClearOverlays()
	Walk(unit UnitID, waypoints []Cell)
}

// ListenerFuncs adapts optional callbacks to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnShowReachable func(cells []Cell)
	OnShowPath      func(path []Cell)
	OnClearOverlays func()
	OnWalk          func(unit UnitID, waypoints []Cell)
}

func (f ListenerFuncs) ShowReachable(cells []Cell) {
	if f.OnShowReachable != nil {
		f.OnShowReachable(cells)
	}
}

func (f ListenerFuncs) ShowPath(path []Cell) {
	if f.OnShowPath != nil {
		f.OnShowPath(path)
	}
}

func (f ListenerFuncs) ClearOverlays() {
	if f.OnClearOverlays != nil {
		f.OnClearOverlays()
	}
}

func (f ListenerFuncs) Walk(unit UnitID, waypoints []Cell) {
	if f.OnWalk != nil {
		f.OnWalk(unit, waypoints)
	}
}

// MultiListener fans every notification out to each listener in order
type MultiListener []Listener

func (m MultiListener) ShowReachable(cells []Cell) {
	for _, l := range m {
		l.ShowReachable(cells)
	}
}

func (m MultiListener) ShowPath(path []Cell) {
	for _, l := range m {
		l.ShowPath(path)
	}
}

func (m MultiListener) ClearOverlays() {
	for _, l := range m {
		l.ClearOverlays()
	}
}

func (m MultiListener) Walk(unit UnitID, waypoints []Cell) {
	for _, l := range m {
		l.Walk(unit, waypoints)
	}
}
