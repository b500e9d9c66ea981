package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// FixtureFile is the YAML layout of a fixture: the whole graph plus the ids
// of the nodes shown first.
type FixtureFile struct {
	Initial            []string `yaml:"initial,omitempty"`
	graphmodel.Records `yaml:",inline"`
}

// Fixture serves records from an in-memory graph loaded from YAML.
type Fixture struct {
	file  FixtureFile
	nodes map[string]graphmodel.NodeRecord
}

// LoadFixture reads a YAML fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return f, nil
}

// ParseFixture decodes YAML fixture data.
func ParseFixture(data []byte) (*Fixture, error) {
	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return NewFixture(file), nil
}

// NewFixture serves file.
func NewFixture(file FixtureFile) *Fixture {
	f := &Fixture{file: file, nodes: make(map[string]graphmodel.NodeRecord, len(file.Nodes))}
	for _, n := range file.Nodes {
		f.nodes[n.ID] = n
	}
	return f
}

// All returns every record in the fixture.
func (f *Fixture) All() graphmodel.Records {
	return f.file.Records
}

// Initial implements Source. Without an initial list every record is
// returned.
func (f *Fixture) Initial(ctx context.Context) (graphmodel.Records, error) {
	if err := ctx.Err(); err != nil {
		return graphmodel.Records{}, err
	}
	if len(f.file.Initial) == 0 {
		return f.file.Records, nil
	}
	var recs graphmodel.Records
	for _, id := range f.file.Initial {
		if n, ok := f.nodes[id]; ok {
			recs.Nodes = append(recs.Nodes, n)
		}
	}
	recs.Relationships, _ = f.Between(ctx, f.file.Initial)
	return recs, nil
}

// Expand implements Source. Neighbours come in relationship order.
func (f *Fixture) Expand(ctx context.Context, nodeID string, limit int) (Expansion, error) {
	if err := ctx.Err(); err != nil {
		return Expansion{}, err
	}
	if _, ok := f.nodes[nodeID]; !ok {
		return Expansion{}, fmt.Errorf("expanding %s: %w", nodeID, ErrUnknownNode)
	}
	var exp Expansion
	taken := make(map[string]bool)
	seen := make(map[string]bool)
	for _, r := range f.file.Relationships {
		var other string
		switch nodeID {
		case r.StartNodeID:
			other = r.EndNodeID
		case r.EndNodeID:
			other = r.StartNodeID
		default:
			continue
		}
		if _, ok := f.nodes[other]; !ok {
			continue
		}
		if other != nodeID && !seen[other] {
			seen[other] = true
			exp.Total++
			if limit <= 0 || len(exp.Records.Nodes) < limit {
				taken[other] = true
				exp.Records.Nodes = append(exp.Records.Nodes, f.nodes[other])
			}
		}
		if other == nodeID || taken[other] {
			exp.Records.Relationships = append(exp.Records.Relationships, r)
		}
	}
	return exp, nil
}

// Between implements Source.
func (f *Fixture) Between(ctx context.Context, ids []string) ([]graphmodel.RelationshipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var rels []graphmodel.RelationshipRecord
	for _, r := range f.file.Relationships {
		if in[r.StartNodeID] && in[r.EndNodeID] {
			rels = append(rels, r)
		}
	}
	return rels, nil
}

// Close implements Source.
func (f *Fixture) Close(context.Context) error { return nil }
