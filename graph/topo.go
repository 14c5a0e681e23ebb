package graph

import "sort"

// buildLevels groups node ids by dependency level using Kahn's algorithm.
// Ids within one level are sorted for deterministic output. The second
// return is false when the connection graph contains a cycle.
func buildLevels(s *Spec) ([][]string, bool) {
	inDegree := make(map[string]int, len(s.Nodes))
	dependents := make(map[string][]string)

	for _, n := range s.Nodes {
		inDegree[n.ID] = 0
	}
	for _, c := range s.Connections {
		// Dangling endpoints are a loader violation; skip them here so
		// level building stays total.
		if _, ok := inDegree[c.From]; !ok {
			continue
		}
		if _, ok := inDegree[c.To]; !ok {
			continue
		}
		inDegree[c.To]++
		dependents[c.From] = append(dependents[c.From], c.To)
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var levels [][]string
	visited := 0

	for len(queue) > 0 {
		levels = append(levels, queue)
		visited += len(queue)

		var next []string
		for _, id := range queue {
			for _, dep := range dependents[id] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	return levels, visited == len(s.Nodes)
}

// cycleMembers returns the ids left unvisited by Kahn's algorithm, i.e. the
// nodes on or downstream of a cycle, sorted for reporting.
func cycleMembers(s *Spec) []string {
	levels, acyclic := buildLevels(s)
	if acyclic {
		return nil
	}
	seen := make(map[string]bool)
	for _, level := range levels {
		for _, id := range level {
			seen[id] = true
		}
	}
	var members []string
	for _, n := range s.Nodes {
		if !seen[n.ID] {
			members = append(members, n.ID)
		}
	}
	sort.Strings(members)
	return members
}
