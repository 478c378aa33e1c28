package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/dayztools/zonemap/internal/combine"
	"github.com/dayztools/zonemap/internal/geometry"
	"github.com/dayztools/zonemap/internal/spawn"
)

func testTransform(t *testing.T) geometry.Transform {
	t.Helper()
	tr, err := geometry.NewTransform(16384, 4096)
	require.NoError(t, err)
	return tr
}

func testSession(t *testing.T, zones map[string]spawn.DynamicZone) *Session {
	t.Helper()
	if zones == nil {
		zones = map[string]spawn.DynamicZone{}
	}
	ds := combine.Fuse(
		zones,
		map[string]spawn.StaticZone{
			"HordeStatic001": {ID: "HordeStatic001", Config: 3, X: 100, Y: 10, Z: 100},
		},
		map[int]spawn.Selector{
			5: {Config: 5, Categories: [3]string{"CatA", "Empty", "Empty"}},
			9: {Config: 9, Categories: [3]string{"CatB", "Empty", "Empty"}},
		},
		spawn.CategoryTable{"CatA": {"Zmb_A"}, "CatB": {"Zmb_B"}},
		nil,
	)
	return NewSession(ds, testTransform(t), zap.NewNop())
}

func TestDrawConfigureLifecycle(t *testing.T) {
	s := testSession(t, nil)
	assert.Equal(t, Idle, s.Mode())

	// 4096px world scale: 1px = 4 world units. Draw a 400x400 world rect.
	id, err := s.Draw(Point{X: 100, Y: 100}, Point{X: 200, Y: 200})
	require.NoError(t, err)
	assert.Equal(t, "Zone001", id, "lowest free slot is reserved")
	assert.Equal(t, Configuring, s.Mode())

	z := s.dataset.Dynamic[id]
	assert.False(t, z.Active(), "slot stays inactive until configured")
	assert.Equal(t, 400, z.XUpLeft)
	assert.Equal(t, 15984, z.ZUpLeft)
	assert.Equal(t, 800, z.XLowerRight)
	assert.Equal(t, 15584, z.ZLowerRight)

	require.NoError(t, s.Configure(5, "new camp"))
	assert.Equal(t, Idle, s.Mode())

	z = s.dataset.Dynamic[id]
	assert.Equal(t, 5, z.Config)
	assert.Equal(t, "new camp", z.Comment)
	assert.Equal(t, []string{"CatA"}, s.dataset.Resolved[id].Order, "configure re-resolves the zone")

	cs := s.Changes()
	require.Len(t, cs.Added, 1)
	assert.Equal(t, id, cs.Added[0].ZoneID)
	assert.Contains(t, cs.Added[0].Line, "data_Zone001")
}

func TestDrawRejectsTooSmall(t *testing.T) {
	s := testSession(t, nil)
	// 2px = 8 world units, under the 10-unit minimum.
	_, err := s.Draw(Point{X: 100, Y: 100}, Point{X: 102, Y: 102})
	assert.ErrorIs(t, err, ErrTooSmall)
	assert.Equal(t, Idle, s.Mode(), "rejected draw returns to idle")
	assert.Empty(t, s.dataset.Dynamic, "nothing was reserved")
}

func TestConfigureRejectsUnknownConfig(t *testing.T) {
	s := testSession(t, nil)
	_, err := s.Draw(Point{X: 100, Y: 100}, Point{X: 200, Y: 200})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Configure(999, ""), ErrUnknownConfig)
	assert.Equal(t, Configuring, s.Mode(), "session stays configuring after a bad config")

	assert.ErrorIs(t, s.Configure(0, ""), ErrUnknownConfig, "config 0 is reserved")
}

func TestCancelDrawLeavesSlotPristine(t *testing.T) {
	s := testSession(t, nil)
	id, err := s.Draw(Point{X: 100, Y: 100}, Point{X: 200, Y: 200})
	require.NoError(t, err)

	require.NoError(t, s.CancelDraw())
	assert.Equal(t, Idle, s.Mode())
	assert.Equal(t, spawn.DynamicZone{ID: id}, s.dataset.Dynamic[id], "no partial geometry persists")
	assert.True(t, s.Changes().Empty())
}

func TestSlotReuseAfterDelete(t *testing.T) {
	zones := map[string]spawn.DynamicZone{
		"Zone001": {ID: "Zone001", Config: 5, XUpLeft: 100, ZUpLeft: 200, XLowerRight: 150, ZLowerRight: 120, Comment: "old"},
		"Zone002": {ID: "Zone002", Config: 9, XUpLeft: 100, ZUpLeft: 200, XLowerRight: 150, ZLowerRight: 120},
	}
	s := testSession(t, zones)

	require.NoError(t, s.Delete("Zone001"))
	z := s.dataset.Dynamic["Zone001"]
	assert.Equal(t, spawn.DynamicZone{ID: "Zone001"}, z, "delete resets the slot, never removes the identity")
	assert.Empty(t, s.dataset.Resolved["Zone001"].Order)

	id, err := s.Draw(Point{X: 100, Y: 100}, Point{X: 200, Y: 200})
	require.NoError(t, err)
	assert.Equal(t, "Zone001", id, "freed slot is the lowest available and gets reused")
}

func TestSlotCapEnforced(t *testing.T) {
	zones := make(map[string]spawn.DynamicZone, spawn.MaxDynamicSlots)
	for n := 1; n <= spawn.MaxDynamicSlots; n++ {
		id := spawn.DynamicZoneID(n)
		zones[id] = spawn.DynamicZone{ID: id, Config: 5}
	}
	s := testSession(t, zones)

	_, err := s.Draw(Point{X: 100, Y: 100}, Point{X: 200, Y: 200})
	assert.ErrorIs(t, err, ErrNoSlots, "creating a 151st active zone fails cleanly")
	assert.Len(t, s.dataset.Dynamic, spawn.MaxDynamicSlots, "no record was created")
	assert.Equal(t, Idle, s.Mode())
}

func TestStaticZoneGeometryIsImmutable(t *testing.T) {
	s := testSession(t, nil)
	assert.ErrorIs(t, s.BeginResize("HordeStatic001"), ErrUnsupportedZoneType)
	assert.ErrorIs(t, s.Delete("HordeStatic001"), ErrUnsupportedZoneType)
}

func TestStaticZoneConfigIsEditable(t *testing.T) {
	s := testSession(t, nil)
	require.NoError(t, s.SetConfig("HordeStatic001", 9, "retasked"))

	z := s.dataset.Static["HordeStatic001"]
	assert.Equal(t, 9, z.Config)
	assert.Equal(t, "retasked", z.Comment)
	assert.Equal(t, []string{"CatB"}, s.dataset.Resolved["HordeStatic001"].Order)

	cs := s.Changes()
	require.Len(t, cs.Static, 1)
	assert.Equal(t, 3, cs.Static[0].OldConfig)
	assert.Equal(t, 9, cs.Static[0].NewConfig)
}

func resizeFixture(t *testing.T) *Session {
	zones := map[string]spawn.DynamicZone{
		"Zone001": {ID: "Zone001", Config: 5, XUpLeft: 1000, ZUpLeft: 9000, XLowerRight: 3000, ZLowerRight: 7000, SpawnRatio: 100, MaxCount: 25},
	}
	return testSession(t, zones)
}

func TestCornerDragClampsToMinimumSize(t *testing.T) {
	s := resizeFixture(t)
	require.NoError(t, s.BeginResize("Zone001"))

	// Drag the visual top-left handle far past the right edge: x must clamp
	// to exactly x_lowerright - 10, never inverting the rectangle.
	px, py := s.transform.WorldToPixel(3000, 9000)
	require.NoError(t, s.DragCorner(TopLeft, Point{X: px + 500, Y: py}))

	z := s.dataset.Dynamic["Zone001"]
	assert.Equal(t, 2990, z.XUpLeft)
	assert.Equal(t, 3000, z.XLowerRight)
	assert.Less(t, z.XUpLeft, z.XLowerRight, "rectangle never inverts")
}

func TestCornerDragMovesMatchingAxes(t *testing.T) {
	s := resizeFixture(t)
	require.NoError(t, s.BeginResize("Zone001"))

	px, py := s.transform.WorldToPixel(500, 9500)
	require.NoError(t, s.DragCorner(TopLeft, Point{X: px, Y: py}))

	z := s.dataset.Dynamic["Zone001"]
	assert.Equal(t, 500, z.XUpLeft)
	assert.Equal(t, 9500, z.ZUpLeft)
	assert.Equal(t, 3000, z.XLowerRight, "opposite corner untouched")
	assert.Equal(t, 7000, z.ZLowerRight, "opposite corner untouched")
}

func TestCornerDragOnFlippedRectangle(t *testing.T) {
	zones := map[string]spawn.DynamicZone{
		// A prior bad edit left the corners swapped.
		"Zone001": {ID: "Zone001", Config: 5, XUpLeft: 3000, ZUpLeft: 7000, XLowerRight: 1000, ZLowerRight: 9000},
	}
	s := testSession(t, zones)
	require.NoError(t, s.BeginResize("Zone001"))

	// The visual left edge is world x=1000, held by XLowerRight here.
	px, py := s.transform.WorldToPixel(500, 9000)
	require.NoError(t, s.DragCorner(TopLeft, Point{X: px, Y: py}))

	z := s.dataset.Dynamic["Zone001"]
	assert.Equal(t, 500, z.XLowerRight, "drag lands on the field rendering at that corner")
	assert.Equal(t, 3000, z.XUpLeft)

	changed, err := s.ConfirmResize()
	require.NoError(t, err)
	assert.True(t, changed)

	z = s.dataset.Dynamic["Zone001"]
	assert.Less(t, z.XUpLeft, z.XLowerRight, "confirm normalizes the corner convention")
	assert.Greater(t, z.ZUpLeft, z.ZLowerRight)
}

func TestBodyDragAccumulatesIncrementally(t *testing.T) {
	s := resizeFixture(t)
	require.NoError(t, s.BeginResize("Zone001"))

	// Two mouse-move events of 25px east each: 100 world units apiece.
	require.NoError(t, s.DragBody(25, 0))
	require.NoError(t, s.DragBody(25, 0))
	// 10px south: 40 world units down.
	require.NoError(t, s.DragBody(0, 10))

	z := s.dataset.Dynamic["Zone001"]
	assert.Equal(t, 1200, z.XUpLeft)
	assert.Equal(t, 3200, z.XLowerRight)
	assert.Equal(t, 8960, z.ZUpLeft)
	assert.Equal(t, 6960, z.ZLowerRight)
}

func TestCancelResizeRestoresSnapshotExactly(t *testing.T) {
	s := resizeFixture(t)
	before := s.dataset.Dynamic["Zone001"]

	require.NoError(t, s.BeginResize("Zone001"))
	require.NoError(t, s.DragBody(100, 100))
	require.NoError(t, s.CancelResize())

	assert.Equal(t, before, s.dataset.Dynamic["Zone001"])
	assert.True(t, s.Changes().Empty())
}

func TestConfirmResizeWithoutMovementRecordsNothing(t *testing.T) {
	s := resizeFixture(t)
	require.NoError(t, s.BeginResize("Zone001"))

	changed, err := s.ConfirmResize()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, s.Changes().Empty())
}

func TestModeGuards(t *testing.T) {
	s := resizeFixture(t)

	assert.ErrorIs(t, s.Configure(5, ""), ErrBadMode)
	assert.ErrorIs(t, s.CancelDraw(), ErrBadMode)
	assert.ErrorIs(t, s.DragCorner(TopLeft, Point{}), ErrBadMode)
	assert.ErrorIs(t, s.DragBody(0, 0), ErrBadMode)
	_, err := s.ConfirmResize()
	assert.ErrorIs(t, err, ErrBadMode)
	assert.ErrorIs(t, s.CancelResize(), ErrBadMode)

	require.NoError(t, s.BeginResize("Zone001"))
	assert.ErrorIs(t, s.BeginResize("Zone001"), ErrBadMode)
	_, err = s.Draw(Point{}, Point{X: 1000, Y: 1000})
	assert.ErrorIs(t, err, ErrBadMode)
}

func TestPropertyCornerDragNeverDegenerates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr, err := geometry.NewTransform(16384, 4096)
		if err != nil {
			rt.Fatalf("transform: %v", err)
		}
		ds := combine.Fuse(
			map[string]spawn.DynamicZone{
				"Zone001": {ID: "Zone001", Config: 5, XUpLeft: 4000, ZUpLeft: 9000, XLowerRight: 6000, ZLowerRight: 7000},
			},
			nil,
			map[int]spawn.Selector{5: {Config: 5}},
			spawn.CategoryTable{},
			nil,
		)
		s := NewSession(ds, tr, zap.NewNop())
		if err := s.BeginResize("Zone001"); err != nil {
			rt.Fatalf("begin resize: %v", err)
		}

		corner := Corner(rapid.IntRange(0, 3).Draw(rt, "corner"))
		px := rapid.Float64Range(0, 4096).Draw(rt, "px")
		py := rapid.Float64Range(0, 4096).Draw(rt, "py")
		if err := s.DragCorner(corner, Point{X: px, Y: py}); err != nil {
			rt.Fatalf("drag: %v", err)
		}

		if _, err := s.ConfirmResize(); err != nil {
			rt.Fatalf("confirm: %v", err)
		}
		z := ds.Dynamic["Zone001"]
		rect := geometry.Rect{XUpLeft: z.XUpLeft, ZUpLeft: z.ZUpLeft, XLowerRight: z.XLowerRight, ZLowerRight: z.ZLowerRight}
		if rect.Width() < MinZoneSize || rect.Height() < MinZoneSize {
			rt.Fatalf("degenerate rectangle after drag: %+v", rect)
		}
	})
}
