package graphmodel

// AddExpandedNodes inserts nodes introduced by expanding parentID and records
// the ones that were actually new, so CollapseNode can remove them again.
// Nodes already present are not recorded.
func (g *Graph) AddExpandedNodes(parentID string, nodes ...*NodeModel) {
	if g.nodes[parentID] == nil {
		return
	}
	for _, n := range nodes {
		if n == nil || g.nodes[n.ID] != nil {
			continue
		}
		g.insertNode(n)
		if !containsID(g.expanded[parentID], n.ID) {
			g.expanded[parentID] = append(g.expanded[parentID], n.ID)
		}
	}
	g.nodes[parentID].Expanded = true
}

// ExpandedChildren returns the node ids recorded for parentID's expansion.
func (g *Graph) ExpandedChildren(parentID string) []string {
	return append([]string(nil), g.expanded[parentID]...)
}

// CollapseNode removes every node (and its relationships) introduced by
// expanding id, depth first, then clears the expansion record.
func (g *Graph) CollapseNode(id string) {
	g.collapse(id, make(map[string]bool))
}

func (g *Graph) collapse(id string, visiting map[string]bool) {
	if visiting[id] {
		return
	}
	visiting[id] = true

	for _, childID := range g.expanded[id] {
		g.collapse(childID, visiting)
		g.RemoveConnectedRelationships(childID)
		g.deleteNode(childID)
		delete(g.expanded, childID)
	}
	delete(g.expanded, id)
	if n := g.nodes[id]; n != nil {
		n.Expanded = false
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
