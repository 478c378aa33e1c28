package editor

import (
	"github.com/google/uuid"

	"github.com/dayztools/zonemap/internal/serialize"
	"github.com/dayztools/zonemap/internal/spawn"
)

// ZoneChange is one pending dynamic zone modification, with the full record
// before and after, plus the ready-to-paste replacement source line.
type ZoneChange struct {
	ZoneID string           `json:"zone_id"`
	Old    spawn.DynamicZone `json:"old"`
	New    spawn.DynamicZone `json:"new"`
	Line   string           `json:"line"`
}

// StaticChange is one pending static zone modification. Only config and
// comment can differ.
type StaticChange struct {
	ZoneID     string `json:"zone_id"`
	OldConfig  int    `json:"old_config"`
	NewConfig  int    `json:"new_config"`
	OldComment string `json:"old_comment"`
	NewComment string `json:"new_comment"`
}

// ChangeSet is the serializable summary of a session's pending edits, the
// structure the browser-facing export artifact is built from.
type ChangeSet struct {
	ID       uuid.UUID      `json:"id"`
	Added    []ZoneChange   `json:"added"`
	Modified []ZoneChange   `json:"modified"`
	Static   []StaticChange `json:"static"`
}

// Empty reports whether no edits are pending.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Static) == 0
}

type changeLog struct {
	added    []ZoneChange
	modified []ZoneChange
	static   []StaticChange
}

func (l *changeLog) recordAdded(z spawn.DynamicZone) {
	l.added = append(l.added, ZoneChange{
		ZoneID: z.ID,
		New:    z,
		Line:   serialize.FormatDynamicZone(z),
	})
}

func (l *changeLog) recordModified(before, after spawn.DynamicZone) {
	l.modified = append(l.modified, ZoneChange{
		ZoneID: after.ID,
		Old:    before,
		New:    after,
		Line:   serialize.FormatDynamicZone(after),
	})
}

func (l *changeLog) recordStaticModified(before, after spawn.StaticZone) {
	l.static = append(l.static, StaticChange{
		ZoneID:     after.ID,
		OldConfig:  before.Config,
		NewConfig:  after.Config,
		OldComment: before.Comment,
		NewComment: after.Comment,
	})
}

// Changes returns the session's pending edits under a fresh change-set ID.
func (s *Session) Changes() ChangeSet {
	return ChangeSet{
		ID:       uuid.New(),
		Added:    s.changes.added,
		Modified: s.changes.modified,
		Static:   s.changes.static,
	}
}

// ClearChanges empties the pending-change log, typically after a successful
// save.
func (s *Session) ClearChanges() {
	s.changes = changeLog{}
}
