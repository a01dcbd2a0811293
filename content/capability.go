package content

import "sync/atomic"

// ColumnState is what is known about an optional column of the primary store.
type ColumnState int32

const (
	ColumnUnknown ColumnState = iota
	ColumnPresent
	ColumnAbsent
)

func (s ColumnState) String() string {
	switch s {
	case ColumnPresent:
		return "present"
	case ColumnAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ColumnProbe tracks one optional column. Once demoted it stays absent.
// Concurrent callers may race to Demote; every one of them writes the same
// terminal value, so no lock is taken.
type ColumnProbe struct {
	column string
	state  atomic.Int32
}

// NewColumnProbe starts in the unknown state.
func NewColumnProbe(column string) *ColumnProbe {
	return &ColumnProbe{column: column}
}

// Column returns the probed column name.
func (p *ColumnProbe) Column() string { return p.column }

// State reports the current knowledge about the column.
func (p *ColumnProbe) State() ColumnState { return ColumnState(p.state.Load()) }

// ShouldInclude is true unless the column was found to be missing.
func (p *ColumnProbe) ShouldInclude() bool { return p.State() != ColumnAbsent }

// MarkPresent records a successful query that selected the column. It never
// overrides a demotion.
func (p *ColumnProbe) MarkPresent() {
	p.state.CompareAndSwap(int32(ColumnUnknown), int32(ColumnPresent))
}

// Demote marks the column absent and reports whether this call changed the state.
func (p *ColumnProbe) Demote() bool {
	return p.state.Swap(int32(ColumnAbsent)) != int32(ColumnAbsent)
}

// ColumnIsActive is the optional projects.is_active column.
const ColumnIsActive = "is_active"

// Capabilities groups the schema probes of one logical session. Each
// repository owns its own value so tests never share state.
type Capabilities struct {
	IsActive *ColumnProbe
}

// NewCapabilities returns probes in the unknown state.
func NewCapabilities() *Capabilities {
	return &Capabilities{IsActive: NewColumnProbe(ColumnIsActive)}
}
