package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingListener keeps every notification for assertions
type recordingListener struct {
	reachable [][]Cell
	paths     [][]Cell
	clears    int
	walks     []walkCall
}

type walkCall struct {
	unit      UnitID
	waypoints []Cell
}

func (r *recordingListener) ShowReachable(cells []Cell) { r.reachable = append(r.reachable, cells) }
func (r *recordingListener) ShowPath(path []Cell)       { r.paths = append(r.paths, path) }
func (r *recordingListener) ClearOverlays()             { r.clears++ }
func (r *recordingListener) Walk(unit UnitID, waypoints []Cell) {
	r.walks = append(r.walks, walkCall{unit: unit, waypoints: waypoints})
}

type controllerFixture struct {
	grid      *Grid
	occupancy *Occupancy
	roster    Roster
	listener  *recordingListener
	ctrl      *Controller
}

func newControllerFixture(t *testing.T, mode ReachMode, units ...*Unit) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		grid:      newTestGrid(t, 5, 5),
		occupancy: NewOccupancy(),
		roster:    Roster{},
		listener:  &recordingListener{},
	}
	for _, u := range units {
		require.NoError(t, f.occupancy.Insert(u.Cell, u.ID))
		f.roster[u.ID] = u
	}
	f.ctrl = NewController(f.grid, f.occupancy, f.roster, f.listener, mode)
	return f
}

func knightAt(c Cell, moveRange int) *Unit {
	return &Unit{ID: "knight", Name: "Knight", Cell: c, MoveRange: moveRange, MoveSpeed: DefaultMoveSpeed}
}

func TestController_SelectEmptyCellIsNoop(t *testing.T) {
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 0, Y: 0}, 2))

	assert.False(t, f.ctrl.Select(Cell{X: 3, Y: 3}))
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Empty(t, f.listener.reachable)
	assert.Nil(t, f.ctrl.Reachable())
}

func TestController_SelectShowsReachable(t *testing.T) {
	knight := knightAt(Cell{X: 0, Y: 0}, 2)
	f := newControllerFixture(t, ReachModeManhattan, knight)

	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))
	assert.Equal(t, StateSelected, f.ctrl.State())
	assert.True(t, knight.Selected)

	require.Len(t, f.listener.reachable, 1)
	assert.Len(t, f.listener.reachable[0], 6)
	assert.Equal(t, f.listener.reachable[0], f.ctrl.Reachable())

	u, ok := f.ctrl.SelectedUnit()
	require.True(t, ok)
	assert.Equal(t, UnitID("knight"), u.ID)
}

func TestController_SelectWhileSelectedIsNoop(t *testing.T) {
	archer := &Unit{ID: "archer", Name: "Archer", Cell: Cell{X: 4, Y: 4}, MoveRange: 1}
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 0, Y: 0}, 2), archer)

	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))
	assert.False(t, f.ctrl.Select(Cell{X: 4, Y: 4}))

	u, _ := f.ctrl.SelectedUnit()
	assert.Equal(t, UnitID("knight"), u.ID)
	assert.False(t, archer.Selected)
	assert.Len(t, f.listener.reachable, 1)
}

func TestController_HoverPreviewsPath(t *testing.T) {
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 0, Y: 0}, 2))

	assert.Nil(t, f.ctrl.Hover(Cell{X: 1, Y: 0}), "hover while idle")
	assert.Empty(t, f.listener.paths)

	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))

	path := f.ctrl.Hover(Cell{X: 2, Y: 0})
	assert.Equal(t, []Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, path)

	outside := f.ctrl.Hover(Cell{X: 4, Y: 4})
	assert.Empty(t, outside)
	require.Len(t, f.listener.paths, 2)
	assert.Empty(t, f.listener.paths[1], "hovering outside the set clears the drawn path")
}

func TestController_AcceptOutsideReachableKeepsSelection(t *testing.T) {
	knight := knightAt(Cell{X: 0, Y: 0}, 2)
	f := newControllerFixture(t, ReachModeManhattan, knight)
	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))

	assert.False(t, f.ctrl.Accept(Cell{X: 3, Y: 0}))
	assert.Equal(t, StateSelected, f.ctrl.State())
	assert.Empty(t, f.listener.walks)
	assert.Equal(t, Cell{X: 0, Y: 0}, knight.Cell)
}

func TestController_AcceptOnOtherUnitIsNoop(t *testing.T) {
	archer := &Unit{ID: "archer", Name: "Archer", Cell: Cell{X: 1, Y: 1}, MoveRange: 1}
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 0, Y: 0}, 2), archer)
	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))

	assert.False(t, f.ctrl.Accept(Cell{X: 1, Y: 1}))
	assert.Equal(t, StateSelected, f.ctrl.State())
	assert.Empty(t, f.listener.walks)
}

func TestController_AcceptCommitsMove(t *testing.T) {
	knight := knightAt(Cell{X: 0, Y: 0}, 2)
	f := newControllerFixture(t, ReachModeManhattan, knight)
	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))
	f.ctrl.Hover(Cell{X: 1, Y: 1})

	require.True(t, f.ctrl.Accept(Cell{X: 1, Y: 1}))

	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, Cell{X: 1, Y: 1}, knight.Cell)
	assert.False(t, knight.Selected)
	assert.False(t, f.occupancy.IsOccupied(Cell{X: 0, Y: 0}))
	id, ok := f.occupancy.At(Cell{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, UnitID("knight"), id)

	assert.Equal(t, 1, f.listener.clears)
	require.Len(t, f.listener.walks, 1)
	walk := f.listener.walks[0]
	assert.Equal(t, UnitID("knight"), walk.unit)
	require.Len(t, walk.waypoints, 3)
	assert.Equal(t, Cell{X: 0, Y: 0}, walk.waypoints[0])
	assert.Equal(t, Cell{X: 1, Y: 1}, walk.waypoints[2])
	assertContiguous(t, walk.waypoints)
}

func TestController_AcceptRecomputesStalePreview(t *testing.T) {
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 0, Y: 0}, 2))
	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))
	f.ctrl.Hover(Cell{X: 2, Y: 0})

	require.True(t, f.ctrl.Accept(Cell{X: 0, Y: 2}))

	require.Len(t, f.listener.walks, 1)
	assert.Equal(t, []Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}}, f.listener.walks[0].waypoints)
}

func TestController_AcceptWithoutHover(t *testing.T) {
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 2, Y: 2}, 2))
	require.True(t, f.ctrl.Select(Cell{X: 2, Y: 2}))

	require.True(t, f.ctrl.Accept(Cell{X: 2, Y: 4}))
	assert.Equal(t, []Cell{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 2, Y: 4}}, f.listener.walks[0].waypoints)
}

func TestController_CancelAndIdleNoops(t *testing.T) {
	knight := knightAt(Cell{X: 0, Y: 0}, 2)
	f := newControllerFixture(t, ReachModeManhattan, knight)

	assert.False(t, f.ctrl.Cancel())
	assert.False(t, f.ctrl.Accept(Cell{X: 1, Y: 0}))
	assert.Equal(t, 0, f.listener.clears)

	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))
	assert.True(t, f.ctrl.Cancel())
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.False(t, knight.Selected)
	assert.Equal(t, 1, f.listener.clears)
	assert.Empty(t, f.listener.walks)
	assert.Nil(t, f.ctrl.PreviewPath())
}

func TestController_PressDispatches(t *testing.T) {
	knight := knightAt(Cell{X: 0, Y: 0}, 2)
	f := newControllerFixture(t, ReachModeManhattan, knight)

	require.True(t, f.ctrl.Press(Cell{X: 0, Y: 0}))
	assert.Equal(t, StateSelected, f.ctrl.State())

	require.True(t, f.ctrl.Press(Cell{X: 2, Y: 0}))
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, Cell{X: 2, Y: 0}, knight.Cell)
}

func TestController_NewSelectionSeesCommittedMove(t *testing.T) {
	archer := &Unit{ID: "archer", Name: "Archer", Cell: Cell{X: 4, Y: 0}, MoveRange: 2}
	f := newControllerFixture(t, ReachModeManhattan, knightAt(Cell{X: 0, Y: 0}, 2), archer)

	require.True(t, f.ctrl.Select(Cell{X: 0, Y: 0}))
	require.True(t, f.ctrl.Accept(Cell{X: 2, Y: 0}))

	require.True(t, f.ctrl.Select(Cell{X: 4, Y: 0}))
	reach := f.ctrl.Reachable()
	assert.NotContains(t, reach, Cell{X: 2, Y: 0})
	assert.Contains(t, reach, Cell{X: 3, Y: 0})
}

func TestController_NilListener(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	o := NewOccupancy()
	knight := knightAt(Cell{X: 1, Y: 1}, 1)
	require.NoError(t, o.Insert(knight.Cell, knight.ID))
	ctrl := NewController(g, o, Roster{knight.ID: knight}, nil, "")

	require.True(t, ctrl.Select(Cell{X: 1, Y: 1}))
	require.True(t, ctrl.Accept(Cell{X: 1, Y: 2}))
	assert.Equal(t, Cell{X: 1, Y: 2}, knight.Cell)
}
