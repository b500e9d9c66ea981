package graphmodel

// NodePair bundles the relationships between two nodes regardless of
// direction. NodeA always holds the lexicographically smaller id.
type NodePair struct {
	NodeA         string
	NodeB         string
	Relationships []*RelationshipModel
}

// PairKey identifies an unordered node pair, smaller id first. Element ids
// contain ':' so the ids are kept apart rather than joined.
type PairKey [2]string

// NewPairKey returns the direction-independent key for (a, b).
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{a, b}
}

// Key returns the pair key.
func (p *NodePair) Key() PairKey {
	return PairKey{p.NodeA, p.NodeB}
}

// IsLoop reports whether the pair is a single node.
func (p *NodePair) IsLoop() bool {
	return p.NodeA == p.NodeB
}

// GroupedRelationships buckets relationships by unordered endpoint pair, in
// order of first appearance.
func (g *Graph) GroupedRelationships() []*NodePair {
	groups := make(map[PairKey]*NodePair)
	var order []*NodePair
	for _, id := range g.relOrder {
		r := g.rels[id]
		key := NewPairKey(r.SourceID, r.TargetID)
		pair, ok := groups[key]
		if !ok {
			pair = &NodePair{NodeA: key[0], NodeB: key[1]}
			groups[key] = pair
			order = append(order, pair)
		}
		pair.Relationships = append(pair.Relationships, r)
	}
	return order
}
