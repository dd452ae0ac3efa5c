package fieldset

import "sort"

// Conditions returns the declaration's display rule sets with legacy DisplayOptions
// folded in as "in" rules. Map keys are visited in sorted order so the result is stable.
func Conditions(decl *Declaration) DisplayConditions {
	if decl == nil {
		return DisplayConditions{}
	}
	conds := decl.DisplayConditions
	if decl.DisplayOptions == nil {
		return conds
	}

	conds.Show = append(append([]Rule(nil), conds.Show...), legacyRules(decl.DisplayOptions.Show)...)
	conds.Hide = append(append([]Rule(nil), conds.Hide...), legacyRules(decl.DisplayOptions.Hide)...)
	return conds
}

func legacyRules(m map[string][]any) []Rule {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		rules = append(rules, Rule{Property: name, Operator: OpIn, Value: m[name]})
	}
	return rules
}

// ExtractDependencies lists the field names a declaration statically depends on:
// the target of every display rule (show, hide, enable, disable) followed by DependsOn.
// Names appear once, in first-seen order. Operand text is never inspected.
func ExtractDependencies(decl *Declaration) []string {
	if decl == nil {
		return nil
	}

	seen := make(map[string]bool)
	var deps []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		deps = append(deps, name)
	}

	conds := Conditions(decl)
	for _, set := range [][]Rule{conds.Show, conds.Hide, conds.Enable, conds.Disable} {
		for _, rule := range set {
			add(rule.Property)
		}
	}
	for _, name := range decl.DependsOn {
		add(name)
	}
	return deps
}

// BuildGraph aggregates per-field dependencies into reverse edges (dependency -> dependents).
// Every declared field gets an entry. Dependencies on undeclared names are dropped.
func BuildGraph(decls []*Declaration) Graph {
	graph := make(Graph, len(decls))
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		if _, ok := graph[decl.Name]; !ok {
			graph[decl.Name] = []string{}
		}
	}

	for _, decl := range decls {
		if decl == nil {
			continue
		}
		for _, dep := range ExtractDependencies(decl) {
			dependents, ok := graph[dep]
			if !ok || contains(dependents, decl.Name) {
				continue
			}
			graph[dep] = append(dependents, decl.Name)
		}
	}
	return graph
}

// Dependents returns the direct dependents of name.
func (g Graph) Dependents(name string) []string {
	return g[name]
}

// Affected returns every field transitively depending on name, breadth first.
// name itself is not included, even when it sits on a cycle.
func (g Graph) Affected(name string) []string {
	seen := map[string]bool{name: true}
	queue := append([]string(nil), g[name]...)
	var out []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, g[next]...)
	}
	return out
}

// Order sorts declarations so every field follows the fields it depends on.
// Cycles are broken by dropping the edge that closes them; visiting follows
// declaration order, so the output is stable for stable input.
func Order(decls []*Declaration) []*Declaration {
	ordered, _ := sequence(decls)
	return ordered
}

// Cycles reports the dependency cycles Order had to break, each as the path
// from the re-entered field back to itself.
func Cycles(decls []*Declaration) [][]string {
	_, cycles := sequence(decls)
	return cycles
}

func sequence(decls []*Declaration) ([]*Declaration, [][]string) {
	const (
		unvisited = iota
		visiting
		visited
	)

	byName := make(map[string]*Declaration, len(decls))
	for _, decl := range decls {
		if decl == nil {
			continue
		}
		if _, dup := byName[decl.Name]; !dup {
			byName[decl.Name] = decl
		}
	}

	marks := make(map[string]int, len(byName))
	ordered := make([]*Declaration, 0, len(byName))
	var stack []string
	var cycles [][]string

	var visit func(decl *Declaration)
	visit = func(decl *Declaration) {
		switch marks[decl.Name] {
		case visited:
			return
		case visiting:
			// Back edge: record the cycle and drop the edge.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == decl.Name {
					cycle := append(append([]string(nil), stack[i:]...), decl.Name)
					cycles = append(cycles, cycle)
					break
				}
			}
			return
		}

		marks[decl.Name] = visiting
		stack = append(stack, decl.Name)
		for _, dep := range ExtractDependencies(decl) {
			if target, ok := byName[dep]; ok {
				visit(target)
			}
		}
		stack = stack[:len(stack)-1]
		marks[decl.Name] = visited
		ordered = append(ordered, decl)
	}

	for _, decl := range decls {
		if decl == nil || byName[decl.Name] != decl {
			continue
		}
		visit(decl)
	}
	return ordered, cycles
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
