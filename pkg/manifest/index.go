package manifest

// PackDef is a single pack definition from the manifest
type PackDef struct {
	Name      string   `yaml:"-" json:"name"`
	Version   string   `yaml:"version" json:"version"`
	DependsOn []string `yaml:"depends_on" json:"depends_on,omitempty"`
	Pages     []string `yaml:"pages" json:"pages,omitempty"`
}

// Index is a read-only, ordered view over a manifest's packs
type Index struct {
	order []string
	defs  map[string]PackDef
}

// NewIndex builds an index from definitions in the given order. A repeated
// name replaces the earlier definition but keeps its position.
func NewIndex(defs ...PackDef) *Index {
	idx := &Index{defs: make(map[string]PackDef, len(defs))}
	for _, def := range defs {
		if _, seen := idx.defs[def.Name]; !seen {
			idx.order = append(idx.order, def.Name)
		}
		idx.defs[def.Name] = def
	}
	return idx
}

// Len returns the number of packs in the manifest
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

// Has reports whether the manifest defines the pack
func (i *Index) Has(name string) bool {
	if i == nil {
		return false
	}
	_, ok := i.defs[name]
	return ok
}

// Get returns the definition for a pack
func (i *Index) Get(name string) (PackDef, bool) {
	if i == nil {
		return PackDef{}, false
	}
	def, ok := i.defs[name]
	return def, ok
}

// Names returns pack names in manifest order
func (i *Index) Names() []string {
	if i == nil {
		return nil
	}
	names := make([]string, len(i.order))
	copy(names, i.order)
	return names
}

// Packs returns pack definitions in manifest order
func (i *Index) Packs() []PackDef {
	if i == nil {
		return nil
	}
	packs := make([]PackDef, 0, len(i.order))
	for _, name := range i.order {
		packs = append(packs, i.defs[name])
	}
	return packs
}

// DependsOn returns the declared dependencies of a pack that the manifest
// actually defines, in declaration order.
func (i *Index) DependsOn(name string) []string {
	def, ok := i.Get(name)
	if !ok {
		return nil
	}
	var deps []string
	for _, dep := range def.DependsOn {
		if i.Has(dep) {
			deps = append(deps, dep)
		}
	}
	return deps
}

// DeclaresDependency reports whether pack declares a direct dependency on dep
func (i *Index) DeclaresDependency(pack, dep string) bool {
	def, ok := i.Get(pack)
	if !ok {
		return false
	}
	for _, d := range def.DependsOn {
		if d == dep {
			return true
		}
	}
	return false
}

// Dependents returns, in manifest order, every other pack that declares a
// direct dependency on name.
func (i *Index) Dependents(name string) []string {
	if i == nil {
		return nil
	}
	var dependents []string
	for _, other := range i.order {
		if other != name && i.DeclaresDependency(other, name) {
			dependents = append(dependents, other)
		}
	}
	return dependents
}

// Cycles returns every dependency cycle reachable in the manifest, each as
// the pack names along the cycle with the first name repeated at the end.
// Cycles are tolerated everywhere else; this exists for reporting.
func (i *Index) Cycles() [][]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, i.Len())
	var stack []string
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		color[name] = grey
		stack = append(stack, name)
		for _, dep := range i.DependsOn(name) {
			switch color[dep] {
			case white:
				visit(dep)
			case grey:
				for pos := len(stack) - 1; pos >= 0; pos-- {
					if stack[pos] == dep {
						cycle := append([]string{}, stack[pos:]...)
						cycles = append(cycles, append(cycle, dep))
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
	}

	for _, name := range i.Names() {
		if color[name] == white {
			visit(name)
		}
	}
	return cycles
}
