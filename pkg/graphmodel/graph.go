// Package graphmodel holds the mutable node/relationship arena behind one
// visualization session: idempotent inserts, internal-relationship
// bookkeeping, neighbour lookup, expand/collapse tracking and node-pair
// grouping for routing.
//
// Every mutation goes through a single insert/delete path per entity kind so
// the id maps and the ordered id lists never drift. Mutations with invalid
// input (absent ids, dangling endpoints) are silent no-ops.
package graphmodel

// Graph owns every node and relationship of a session. Iteration order is
// insertion order.
type Graph struct {
	nodes     map[string]*NodeModel
	nodeOrder []string
	rels      map[string]*RelationshipModel
	relOrder  []string

	// expanded maps a parent node id to the node ids its expansion introduced.
	expanded map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*NodeModel),
		rels:     make(map[string]*RelationshipModel),
		expanded: make(map[string][]string),
	}
}

// ── Node operations ──

// AddNodes inserts nodes not already present. Duplicate ids are skipped.
func (g *Graph) AddNodes(nodes ...*NodeModel) *Graph {
	for _, n := range nodes {
		g.insertNode(n)
	}
	return g
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *NodeModel {
	return g.nodes[id]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*NodeModel {
	result := make([]*NodeModel, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		result = append(result, g.nodes[id])
	}
	return result
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodeOrder)
}

// UpdateNode replaces labels and properties of an existing node, keeping its
// position and display flags.
func (g *Graph) UpdateNode(n *NodeModel) {
	if n == nil {
		return
	}
	existing, ok := g.nodes[n.ID]
	if !ok {
		return
	}
	existing.Labels = n.Labels
	existing.PropertyList = n.PropertyList
	existing.PropertyMap = n.PropertyMap
}

// RemoveNode deletes the node. Incident relationships are NOT removed; call
// RemoveConnectedRelationships first.
func (g *Graph) RemoveNode(id string) {
	g.deleteNode(id)
}

// ── Relationship operations ──

// AddRelationships inserts relationships as first-class (non-internal).
// Re-adding an existing id promotes it to non-internal. Relationships whose
// endpoints are not in the graph are skipped.
func (g *Graph) AddRelationships(rels ...*RelationshipModel) *Graph {
	for _, r := range rels {
		if r == nil {
			continue
		}
		if existing, ok := g.rels[r.ID]; ok {
			existing.Internal = false
			continue
		}
		r.Internal = false
		g.insertRelationship(r)
	}
	return g
}

// AddInternalRelationships inserts relationships discovered between visible
// nodes. Existing relationships are left untouched.
func (g *Graph) AddInternalRelationships(rels ...*RelationshipModel) *Graph {
	for _, r := range rels {
		if r == nil {
			continue
		}
		if _, ok := g.rels[r.ID]; ok {
			continue
		}
		r.Internal = true
		g.insertRelationship(r)
	}
	return g
}

// PruneInternalRelationships drops every internal relationship.
func (g *Graph) PruneInternalRelationships() {
	kept := g.relOrder[:0]
	for _, id := range g.relOrder {
		if g.rels[id].Internal {
			delete(g.rels, id)
			continue
		}
		kept = append(kept, id)
	}
	g.relOrder = kept
}

// Relationship returns the relationship with the given id, or nil.
func (g *Graph) Relationship(id string) *RelationshipModel {
	return g.rels[id]
}

// Relationships returns all relationships in insertion order.
func (g *Graph) Relationships() []*RelationshipModel {
	result := make([]*RelationshipModel, 0, len(g.relOrder))
	for _, id := range g.relOrder {
		result = append(result, g.rels[id])
	}
	return result
}

// RelationshipCount returns the number of relationships.
func (g *Graph) RelationshipCount() int {
	return len(g.relOrder)
}

// FindAllRelationshipsToNode returns relationships with nodeID as an endpoint.
func (g *Graph) FindAllRelationshipsToNode(nodeID string) []*RelationshipModel {
	var result []*RelationshipModel
	for _, id := range g.relOrder {
		if r := g.rels[id]; r.Touches(nodeID) {
			result = append(result, r)
		}
	}
	return result
}

// RemoveConnectedRelationships deletes every relationship touching nodeID.
func (g *Graph) RemoveConnectedRelationships(nodeID string) {
	for _, r := range g.FindAllRelationshipsToNode(nodeID) {
		g.deleteRelationship(r.ID)
	}
}

// RemoveRelationship deletes one relationship.
func (g *Graph) RemoveRelationship(id string) {
	g.deleteRelationship(id)
}

// FindNodeNeighbourIDs returns the distinct ids connected to id, in
// relationship-iteration order.
func (g *Graph) FindNodeNeighbourIDs(id string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, rid := range g.relOrder {
		r := g.rels[rid]
		if !r.Touches(id) {
			continue
		}
		other := r.Other(id)
		if seen[other] {
			continue
		}
		seen[other] = true
		result = append(result, other)
	}
	return result
}

// Reset removes everything.
func (g *Graph) Reset() {
	g.nodes = make(map[string]*NodeModel)
	g.nodeOrder = nil
	g.rels = make(map[string]*RelationshipModel)
	g.relOrder = nil
	g.expanded = make(map[string][]string)
}

// ── Single mutation path ──

func (g *Graph) insertNode(n *NodeModel) {
	if n == nil || n.ID == "" {
		return
	}
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

func (g *Graph) deleteNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.nodeOrder = removeID(g.nodeOrder, id)
}

func (g *Graph) insertRelationship(r *RelationshipModel) {
	if r.ID == "" {
		return
	}
	if g.nodes[r.SourceID] == nil || g.nodes[r.TargetID] == nil {
		return
	}
	g.rels[r.ID] = r
	g.relOrder = append(g.relOrder, r.ID)
}

func (g *Graph) deleteRelationship(id string) {
	if _, ok := g.rels[id]; !ok {
		return
	}
	delete(g.rels, id)
	g.relOrder = removeID(g.relOrder, id)
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
