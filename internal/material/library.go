package material

// Library holds materials by name in insertion order.
type Library struct {
	order  []string
	byName map[string]*Graph
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{byName: map[string]*Graph{}}
}

// Add stores g and returns it. A name already in use is suffixed (".001", ...), and
// the graph is renamed to match.
func (l *Library) Add(g *Graph) *Graph {
	g.Name = uniqueName(g.Name, func(n string) bool { _, ok := l.byName[n]; return ok })
	l.byName[g.Name] = g
	l.order = append(l.order, g.Name)
	return g
}

// Get returns the material with the given name, or nil.
func (l *Library) Get(name string) *Graph {
	return l.byName[name]
}

// All returns the materials in insertion order.
func (l *Library) All() []*Graph {
	out := make([]*Graph, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, l.byName[n])
	}
	return out
}

// Len returns the number of materials.
func (l *Library) Len() int { return len(l.order) }
