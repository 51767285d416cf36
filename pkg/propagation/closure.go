package propagation

import "github.com/arthur-debert/packstate/pkg/manifest"

// CollectAllDependencies returns the transitive dependencies of packName in
// depth-first discovery order. packName itself only appears when it sits on
// a cycle.
func CollectAllDependencies(idx *manifest.Index, packName string) []string {
	return walk(packName, idx.DependsOn)
}

// CollectAllDependents returns every pack that transitively depends on
// packName, in depth-first discovery order.
func CollectAllDependents(idx *manifest.Index, packName string) []string {
	return walk(packName, idx.Dependents)
}

func walk(start string, next func(string) []string) []string {
	seen := make(map[string]bool)
	var collected []string

	var visit func(name string)
	visit = func(name string) {
		for _, n := range next(name) {
			if seen[n] {
				continue
			}
			seen[n] = true
			collected = append(collected, n)
			visit(n)
		}
	}
	visit(start)

	return collected
}
