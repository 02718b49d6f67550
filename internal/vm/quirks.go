package vm

import (
	"sort"
	"strings"
)

// Quirks selects between the behaviours of the different CHIP-8
// interpreters. The zero value is the "modern" interpreter most
// programs written after the 1990s expect.
type Quirks struct {
	// 8XY6/8XYE shift VY into VX instead of shifting VX in place.
	ShiftUsesVY bool
	// 8XY1/8XY2/8XY3 reset VF to zero.
	LogicResetsVF bool
	// FX55/FX65 leave I pointing past the last register transferred.
	IncrementIndex bool
	// DXYN waits for the next timer tick, so at most one sprite is drawn per frame.
	DisplayWait bool
	// Sprites are clipped at the screen edges instead of wrapping around.
	ClipSprites bool
	// BNNN jumps to XNN+VX instead of NNN+V0.
	JumpUsesVX bool
	// FX1E sets VF when I goes past 0x0FFF.
	IndexOverflowFlag bool
	// FX0A stores the key on press but resumes only after it is released.
	KeyWaitRelease bool
	// 0NNN machine code calls are skipped instead of faulting.
	IgnoreSys bool
	// Effective addresses wrap around the end of memory instead of faulting.
	WrapMemory bool
}

var (
	// QuirksOriginal is the COSMAC VIP interpreter.
	QuirksOriginal = Quirks{
		ShiftUsesVY:    true,
		LogicResetsVF:  true,
		IncrementIndex: true,
		DisplayWait:    true,
		ClipSprites:    true,
		KeyWaitRelease: true,
		IgnoreSys:      true,
	}

	QuirksModern = Quirks{}

	// QuirksSuperChip is SUPER-CHIP 1.1 on the HP48.
	QuirksSuperChip = Quirks{
		ClipSprites: true,
		JumpUsesVX:  true,
	}
)

var quirkPresets = map[string]Quirks{
	"original": QuirksOriginal,
	"vip":      QuirksOriginal,
	"modern":   QuirksModern,
	"schip":    QuirksSuperChip,
}

// QuirksByName looks up a preset by its case-insensitive name.
func QuirksByName(name string) (Quirks, bool) {
	q, ok := quirkPresets[strings.ToLower(name)]
	return q, ok
}

// QuirkPresets lists the preset names in sorted order.
func QuirkPresets() []string {
	names := make([]string, 0, len(quirkPresets))
	for name := range quirkPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QuirkField names a single toggle of Quirks.
type QuirkField struct {
	Name  string
	Usage string
	Field func(q *Quirks) *bool
}

// QuirkFields enumerates every toggle in Quirks. Front-ends use it to
// expose overrides without knowing the individual quirks.
var QuirkFields = []QuirkField{
	{"shift-vy", "8XY6/8XYE shift VY into VX", func(q *Quirks) *bool { return &q.ShiftUsesVY }},
	{"logic-reset-vf", "8XY1/8XY2/8XY3 reset VF", func(q *Quirks) *bool { return &q.LogicResetsVF }},
	{"increment-index", "FX55/FX65 increment I", func(q *Quirks) *bool { return &q.IncrementIndex }},
	{"display-wait", "DXYN waits for the next frame", func(q *Quirks) *bool { return &q.DisplayWait }},
	{"clip-sprites", "clip sprites at the screen edges", func(q *Quirks) *bool { return &q.ClipSprites }},
	{"jump-vx", "BNNN jumps to XNN+VX", func(q *Quirks) *bool { return &q.JumpUsesVX }},
	{"index-overflow", "FX1E sets VF on I overflow", func(q *Quirks) *bool { return &q.IndexOverflowFlag }},
	{"key-release", "FX0A resumes on key release", func(q *Quirks) *bool { return &q.KeyWaitRelease }},
	{"ignore-sys", "skip 0NNN machine code calls", func(q *Quirks) *bool { return &q.IgnoreSys }},
	{"wrap-memory", "wrap addresses past the end of memory", func(q *Quirks) *bool { return &q.WrapMemory }},
}
