package core

// Action represents a semantic editor action, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // Move cursor up
	ActionDown               // Move cursor down
	ActionLeft               // Move cursor left
	ActionRight              // Move cursor right
	ActionApply              // Use the active tool at the cursor
	ActionNextTool           // Cycle tools
	ActionNextTile           // Next tile of the brush tileset
	ActionPrevTile           // Previous tile of the brush tileset
	ActionNextTileset        // Next tileset
	ActionNextLayer          // Cycle ground/mask/fringe
	ActionNextPreset         // Cycle stamp presets
	ActionSave               // Permanent save of the open map
	ActionPrevMap            // Open the map to the west
	ActionNextMap            // Open the map to the east
	ActionHelp               // Toggle full help
	ActionQuit               // Start the exit sequence
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionApply:
		return "Apply"
	case ActionNextTool:
		return "NextTool"
	case ActionNextTile:
		return "NextTile"
	case ActionPrevTile:
		return "PrevTile"
	case ActionNextTileset:
		return "NextTileset"
	case ActionNextLayer:
		return "NextLayer"
	case ActionNextPreset:
		return "NextPreset"
	case ActionSave:
		return "Save"
	case ActionPrevMap:
		return "PrevMap"
	case ActionNextMap:
		return "NextMap"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered between two frames.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records an action. Repeated actions are kept, so holding a movement
// key moves the cursor once per key event.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, x := range f.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}
