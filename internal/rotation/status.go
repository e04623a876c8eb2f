package rotation

import (
	"time"
)

// Window says which part of the chain a slot belongs to.
type Window int

const (
	WindowKeep Window = iota
	WindowShift
	// WindowStray marks slots past keep+shift, usually left over from a
	// larger configuration. Rotation never touches them.
	WindowStray
)

func (w Window) String() string {
	switch w {
	case WindowKeep:
		return "keep"
	case WindowShift:
		return "shift"
	default:
		return "stray"
	}
}

// SlotInfo is the observed state of one backup slot.
type SlotInfo struct {
	Index  int
	Path   string
	Window Window
	Exists bool
	Size   int64
	MTime  time.Time
}

// Status reports every slot of the chain, followed by contiguous stray slots
// beyond it. It only reads the filesystem.
func (e *Engine) Status(t Target) ([]SlotInfo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var out []SlotInfo
	for i := 1; ; i++ {
		info := SlotInfo{Index: i, Path: t.SlotPath(i), Window: windowOf(t, i)}

		ok, err := e.fs.Exists(info.Path)
		if err != nil {
			return out, err
		}
		if ok {
			st, err := e.fs.Stat(info.Path)
			if err != nil {
				return out, err
			}
			info.Exists = true
			info.Size = st.Size
			info.MTime = st.MTime
		}

		if info.Window == WindowStray && !info.Exists {
			break
		}
		out = append(out, info)
	}
	return out, nil
}

func windowOf(t Target, index int) Window {
	switch {
	case index <= t.Keep:
		return WindowKeep
	case index <= t.Size():
		return WindowShift
	default:
		return WindowStray
	}
}
