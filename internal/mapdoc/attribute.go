package mapdoc

// AttrKind is the wire tag of a cell attribute.
type AttrKind uint8

const (
	AttrNone AttrKind = iota
	AttrBlocked
	AttrWarp
	AttrItem
	AttrNPCAvoid
	AttrResource
)

// String returns a human-readable name for the kind.
func (k AttrKind) String() string {
	switch k {
	case AttrNone:
		return "none"
	case AttrBlocked:
		return "blocked"
	case AttrWarp:
		return "warp"
	case AttrItem:
		return "item"
	case AttrNPCAvoid:
		return "npc_avoid"
	case AttrResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Attribute is a per-cell attribute. A nil Attribute means no attribute.
// Implementations are comparable values so attributes can be compared with ==.
type Attribute interface {
	Kind() AttrKind
}

// Blocked marks a cell as impassable.
type Blocked struct{}

// Warp teleports whoever steps on the cell to a tile on another map.
type Warp struct {
	Target Position
	X, Y   uint16
}

// Item spawns an item on the cell.
type Item struct {
	ItemID uint16
	Amount uint16
}

// NPCAvoid keeps wandering NPCs off the cell.
type NPCAvoid struct{}

// Resource places a harvestable resource on the cell.
type Resource struct {
	ResourceID uint16
}

func (Blocked) Kind() AttrKind  { return AttrBlocked }
func (Warp) Kind() AttrKind     { return AttrWarp }
func (Item) Kind() AttrKind     { return AttrItem }
func (NPCAvoid) Kind() AttrKind { return AttrNPCAvoid }
func (Resource) Kind() AttrKind { return AttrResource }

// KindOf returns the kind of a possibly nil attribute.
func KindOf(a Attribute) AttrKind {
	if a == nil {
		return AttrNone
	}
	return a.Kind()
}
