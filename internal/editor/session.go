// Package editor implements the zone-editing state machine: drawing new
// rectangular zones, configuring them, corner/body resizing with minimum-size
// clamps, and the slot-reuse delete model. All gesture state is held in an
// explicit Session value; nothing is global.
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/combine"
	"github.com/dayztools/zonemap/internal/geometry"
	"github.com/dayztools/zonemap/internal/spawn"
)

// MinZoneSize is the smallest allowed rectangle side, in world units.
const MinZoneSize = 10

// Mode is the editing state of a Session. The rubber-band drawing phase
// between mouse-down and mouse-up lives entirely client-side; Draw is its
// atomic completion, so a successful draw moves the session straight from
// Idle to Configuring.
type Mode int

const (
	// Idle means no gesture is in progress.
	Idle Mode = iota
	// Configuring means a freshly drawn zone awaits its config and comment.
	Configuring
	// Resizing means an existing zone's pre-resize snapshot is held and
	// corner or body drags are being applied.
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Configuring:
		return "configuring"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Corner identifies a visual (pixel-space) corner handle.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Point is a pixel-space position.
type Point struct {
	X float64
	Y float64
}

var (
	// ErrNoSlots is returned when all Zone001..Zone150 slots are active.
	ErrNoSlots = errors.New("no free zone slots remain")
	// ErrTooSmall is returned when a drawn or resized rectangle would be
	// under the minimum size.
	ErrTooSmall = fmt.Errorf("zone must be at least %d world units per side", MinZoneSize)
	// ErrUnsupportedZoneType is returned for resize/delete attempts on
	// static zones, which have no slot-reuse model and fixed geometry.
	ErrUnsupportedZoneType = errors.New("unsupported for this zone type")
	// ErrBadMode is returned when an operation does not apply to the
	// session's current mode.
	ErrBadMode = errors.New("operation not valid in current editor mode")
	// ErrUnknownConfig is returned when configuring a zone with a config
	// number that has no selector entry.
	ErrUnknownConfig = errors.New("config number is not defined")
	// ErrUnknownZone is returned for operations on identifiers not present
	// in the collection.
	ErrUnknownZone = errors.New("unknown zone identifier")
)

// Session is one interactive editing session over a fused dataset. It is not
// safe for concurrent use; the caller serializes access (single logic
// thread).
type Session struct {
	ID        uuid.UUID
	dataset   *combine.Dataset
	transform geometry.Transform
	logger    *zap.Logger

	mode     Mode
	activeID string
	snapshot spawn.DynamicZone

	changes changeLog
}

// NewSession starts an editing session.
//
// Precondition: dataset and logger must be non-nil.
func NewSession(dataset *combine.Dataset, transform geometry.Transform, logger *zap.Logger) *Session {
	return &Session{
		ID:        uuid.New(),
		dataset:   dataset,
		transform: transform,
		logger:    logger,
		mode:      Idle,
	}
}

// Mode returns the session's current editing state.
func (s *Session) Mode() Mode { return s.mode }

// ActiveZone returns the identifier of the zone a gesture is operating on,
// empty when idle.
func (s *Session) ActiveZone() string {
	if s.mode == Idle {
		return ""
	}
	return s.activeID
}

// Draw accepts the two pixel points of a drawn rectangle. On success the
// lowest free slot is reserved with the converted world geometry and the
// session moves to Configuring. A rectangle under the minimum size is
// rejected and the session stays Idle.
//
// Postcondition: on success, returns the reserved slot identifier and the
// slot's record holds normalized geometry at config 0.
func (s *Session) Draw(p1, p2 Point) (string, error) {
	if s.mode != Idle {
		return "", fmt.Errorf("%w: draw requires idle, session is %s", ErrBadMode, s.mode)
	}

	x1, z1 := s.transform.PixelToWorld(p1.X, p1.Y)
	x2, z2 := s.transform.PixelToWorld(p2.X, p2.Y)
	rect := geometry.Rect{XUpLeft: x1, ZUpLeft: z1, XLowerRight: x2, ZLowerRight: z2}.Normalized()

	if rect.Width() < MinZoneSize || rect.Height() < MinZoneSize {
		return "", ErrTooSmall
	}

	id, err := s.freeSlot()
	if err != nil {
		return "", err
	}

	s.dataset.Dynamic[id] = spawn.DynamicZone{
		ID:          id,
		Config:      spawn.InactiveConfig,
		XUpLeft:     rect.XUpLeft,
		ZUpLeft:     rect.ZUpLeft,
		XLowerRight: rect.XLowerRight,
		ZLowerRight: rect.ZLowerRight,
		SpawnRatio:  defaultSpawnRatio,
		MaxCount:    defaultMaxCount,
	}
	s.mode = Configuring
	s.activeID = id
	s.logger.Debug("zone drawn",
		zap.String("zone", id),
		zap.Int("width", rect.Width()),
		zap.Int("height", rect.Height()),
	)
	return id, nil
}

// New zones spawn with the stock ratio and cap; both fields stay editable in
// the source file and round-trip untouched afterwards.
const (
	defaultSpawnRatio = 100
	defaultMaxCount   = 25
)

// Configure commits the config number and optional comment onto the reserved
// slot and returns the session to Idle.
//
// Precondition: the session must be Configuring and config must exist in the
// selector table.
func (s *Session) Configure(config int, comment string) error {
	if s.mode != Configuring {
		return fmt.Errorf("%w: configure requires a drawn zone, session is %s", ErrBadMode, s.mode)
	}
	if _, ok := s.dataset.Selectors[config]; !ok || config == spawn.InactiveConfig {
		return fmt.Errorf("%w: %d", ErrUnknownConfig, config)
	}

	z := s.dataset.Dynamic[s.activeID]
	z.Config = config
	z.Comment = comment
	s.dataset.Dynamic[s.activeID] = z
	s.dataset.Refresh(s.activeID)

	s.changes.recordAdded(z)
	s.logger.Info("zone created",
		zap.String("zone", s.activeID),
		zap.Int("config", config),
	)
	s.reset()
	return nil
}

// CancelDraw abandons a drawn-but-unconfigured zone. The slot returns to its
// pristine free state; no partial geometry persists.
func (s *Session) CancelDraw() error {
	if s.mode != Configuring {
		return fmt.Errorf("%w: cancel draw requires a drawn zone, session is %s", ErrBadMode, s.mode)
	}
	s.dataset.Dynamic[s.activeID] = spawn.DynamicZone{ID: s.activeID}
	s.reset()
	return nil
}

// BeginResize snapshots a dynamic zone and enters Resizing. Static zones
// cannot be resized.
func (s *Session) BeginResize(zoneID string) error {
	if s.mode != Idle {
		return fmt.Errorf("%w: resize requires idle, session is %s", ErrBadMode, s.mode)
	}
	if _, isStatic := s.dataset.Static[zoneID]; isStatic {
		return fmt.Errorf("%w: static zone %s cannot be resized", ErrUnsupportedZoneType, zoneID)
	}
	z, ok := s.dataset.Dynamic[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownZone, zoneID)
	}
	s.mode = Resizing
	s.activeID = zoneID
	s.snapshot = z
	return nil
}

// DragCorner moves one visual corner handle to a new pixel position. The
// handle is mapped onto whichever world-space corner field currently renders
// at that visual corner (a previously flipped rectangle therefore still
// resizes sensibly), and the dragged coordinate is clamped so the rectangle
// never shrinks below the minimum size on either axis. The drag is never
// rejected, only clamped.
func (s *Session) DragCorner(corner Corner, to Point) error {
	if s.mode != Resizing {
		return fmt.Errorf("%w: corner drag requires resizing, session is %s", ErrBadMode, s.mode)
	}

	z := s.dataset.Dynamic[s.activeID]
	newX, newZ := s.transform.PixelToWorld(to.X, to.Y)

	// Pixel X grows with world X, pixel Y grows against world Z, so the
	// visual left edge is the smaller world X and the visual top edge is
	// the larger world Z regardless of which named field holds it.
	xLowField, xHighField := orderFields(&z.XUpLeft, &z.XLowerRight)
	zLowField, zHighField := orderFields(&z.ZLowerRight, &z.ZUpLeft)

	switch corner {
	case TopLeft:
		*xLowField = clampMax(newX, *xHighField-MinZoneSize)
		*zHighField = clampMin(newZ, *zLowField+MinZoneSize)
	case TopRight:
		*xHighField = clampMin(newX, *xLowField+MinZoneSize)
		*zHighField = clampMin(newZ, *zLowField+MinZoneSize)
	case BottomLeft:
		*xLowField = clampMax(newX, *xHighField-MinZoneSize)
		*zLowField = clampMax(newZ, *zHighField-MinZoneSize)
	case BottomRight:
		*xHighField = clampMin(newX, *xLowField+MinZoneSize)
		*zLowField = clampMax(newZ, *zHighField-MinZoneSize)
	default:
		return fmt.Errorf("unknown corner %d", corner)
	}

	s.dataset.Dynamic[s.activeID] = z
	return nil
}

// DragBody translates the whole rectangle by a pixel delta. Deltas accumulate
// incrementally per mouse-move event; the caller passes the delta since the
// previous event, not since the gesture started.
func (s *Session) DragBody(dpx, dpy float64) error {
	if s.mode != Resizing {
		return fmt.Errorf("%w: body drag requires resizing, session is %s", ErrBadMode, s.mode)
	}
	dx, dz := s.transform.PixelDeltaToWorld(dpx, dpy)

	z := s.dataset.Dynamic[s.activeID]
	z.XUpLeft += dx
	z.XLowerRight += dx
	z.ZUpLeft += dz
	z.ZLowerRight += dz
	s.dataset.Dynamic[s.activeID] = z
	return nil
}

// ConfirmResize normalizes the rectangle, records a pending change when the
// coordinates differ from the pre-resize snapshot, and returns to Idle.
//
// Postcondition: returns true when a change was recorded.
func (s *Session) ConfirmResize() (bool, error) {
	if s.mode != Resizing {
		return false, fmt.Errorf("%w: confirm requires resizing, session is %s", ErrBadMode, s.mode)
	}

	z := s.dataset.Dynamic[s.activeID]
	rect := geometry.Rect{
		XUpLeft: z.XUpLeft, ZUpLeft: z.ZUpLeft,
		XLowerRight: z.XLowerRight, ZLowerRight: z.ZLowerRight,
	}.Normalized()
	z.XUpLeft, z.ZUpLeft = rect.XUpLeft, rect.ZUpLeft
	z.XLowerRight, z.ZLowerRight = rect.XLowerRight, rect.ZLowerRight
	s.dataset.Dynamic[s.activeID] = z

	changed := z != s.snapshot
	if changed {
		s.changes.recordModified(s.snapshot, z)
		s.logger.Info("zone resized", zap.String("zone", s.activeID))
	}
	s.reset()
	return changed, nil
}

// CancelResize restores the pre-resize snapshot exactly and returns to Idle.
func (s *Session) CancelResize() error {
	if s.mode != Resizing {
		return fmt.Errorf("%w: cancel requires resizing, session is %s", ErrBadMode, s.mode)
	}
	s.dataset.Dynamic[s.activeID] = s.snapshot
	s.reset()
	return nil
}

// SetConfig rewrites an active zone's config number (and re-resolves it).
// Works for both zone variants: static zones allow config and comment edits,
// just not geometry.
func (s *Session) SetConfig(zoneID string, config int, comment string) error {
	if _, ok := s.dataset.Selectors[config]; !ok || config == spawn.InactiveConfig {
		return fmt.Errorf("%w: %d", ErrUnknownConfig, config)
	}
	if z, ok := s.dataset.Dynamic[zoneID]; ok {
		before := z
		z.Config = config
		z.Comment = comment
		s.dataset.Dynamic[zoneID] = z
		s.dataset.Refresh(zoneID)
		s.changes.recordModified(before, z)
		return nil
	}
	if z, ok := s.dataset.Static[zoneID]; ok {
		before := z
		z.Config = config
		z.Comment = comment
		s.dataset.Static[zoneID] = z
		s.dataset.Refresh(zoneID)
		s.changes.recordStaticModified(before, z)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownZone, zoneID)
}

// Delete resets a dynamic zone to a free slot: config 0, zeroed geometry,
// cleared comment and resolved categories. The identifier itself is never
// removed. Static zones cannot be deleted.
func (s *Session) Delete(zoneID string) error {
	if _, isStatic := s.dataset.Static[zoneID]; isStatic {
		return fmt.Errorf("%w: static zone %s cannot be deleted", ErrUnsupportedZoneType, zoneID)
	}
	z, ok := s.dataset.Dynamic[zoneID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownZone, zoneID)
	}
	before := z
	s.dataset.Dynamic[zoneID] = spawn.DynamicZone{ID: zoneID}
	s.dataset.Refresh(zoneID)
	s.changes.recordModified(before, s.dataset.Dynamic[zoneID])
	s.logger.Info("zone slot freed", zap.String("zone", zoneID))
	return nil
}

// freeSlot returns the lowest-numbered slot identifier whose record is
// inactive, scanning the whole fixed slot space.
func (s *Session) freeSlot() (string, error) {
	for n := 1; n <= spawn.MaxDynamicSlots; n++ {
		id := spawn.DynamicZoneID(n)
		if z, ok := s.dataset.Dynamic[id]; !ok || !z.Active() {
			return id, nil
		}
	}
	return "", ErrNoSlots
}

func (s *Session) reset() {
	s.mode = Idle
	s.activeID = ""
	s.snapshot = spawn.DynamicZone{}
}

// orderFields returns pointers to the two ints ordered by current value.
func orderFields(a, b *int) (low, high *int) {
	if *a <= *b {
		return a, b
	}
	return b, a
}

func clampMax(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
