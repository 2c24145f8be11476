// Package registry provides a global registry for editing tools.
// Tools register themselves in init() functions, allowing the editor
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-mapedit/internal/mapdoc"
	"github.com/vovakirdan/tui-mapedit/internal/preset"
)

// Brush is what a tool paints with.
type Brush struct {
	Layer  mapdoc.Layer
	Tile   mapdoc.Tile
	Preset preset.Data
}

// Tool is the interface every editing tool implements.
// Tools contain pure document logic with no UI dependencies.
type Tool interface {
	// ID returns a unique identifier (e.g., "pencil", "fill").
	ID() string

	// Title returns a human-readable name for the toolbar.
	Title() string

	// Apply uses the tool at cell (x, y) and reports whether the document
	// changed. Out-of-bounds cells are ignored.
	Apply(doc *mapdoc.Document, x, y int, b Brush) bool
}

// ToolInfo contains metadata about a registered tool.
type ToolInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a tool.
type Factory func() Tool

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a tool factory to the registry.
// Panics if a tool with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: tool %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered tools, sorted by ID.
func List() []ToolInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ToolInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ToolInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a tool by its ID.
func Create(id string) (Tool, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown tool %q", id)
	}

	return f(), nil
}

// Exists checks if a tool with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
