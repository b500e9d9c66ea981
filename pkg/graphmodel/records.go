package graphmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Reasons a raw record is rejected at ingestion.
var (
	ErrMissingID       = errors.New("record has no id")
	ErrMissingType     = errors.New("relationship has no type")
	ErrUnknownEndpoint = errors.New("relationship endpoint is not a known node")
)

// RecordError describes one rejected record.
type RecordError struct {
	Kind  string // "node" or "relationship"
	Index int
	ID    string
	Err   error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s record %d: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("%s record %d (%s): %v", e.Kind, e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// NodeRecord is a raw node as delivered by a query result or fixture.
type NodeRecord struct {
	ID         string         `json:"id" yaml:"id"`
	Labels     []string       `json:"labels" yaml:"labels"`
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// RelationshipRecord is a raw relationship.
type RelationshipRecord struct {
	ID          string         `json:"id" yaml:"id"`
	Type        string         `json:"type" yaml:"type"`
	StartNodeID string         `json:"startNode" yaml:"startNode"`
	EndNodeID   string         `json:"endNode" yaml:"endNode"`
	Properties  map[string]any `json:"properties" yaml:"properties"`
}

// Records is a batch of raw nodes and relationships.
type Records struct {
	Nodes         []NodeRecord         `json:"nodes" yaml:"nodes"`
	Relationships []RelationshipRecord `json:"relationships" yaml:"relationships"`
}

// Batch is a converted, validated set of entities ready to be added.
type Batch struct {
	Nodes         []*NodeModel
	Relationships []*RelationshipModel
}

// Convert validates records and builds models. Relationship endpoints must
// name a node of the batch or a node already in g (g may be nil). Invalid
// records are skipped and reported together in the returned error; valid
// ones are still returned.
func Convert(g *Graph, recs Records) (Batch, error) {
	var (
		batch Batch
		errs  []error
	)
	known := make(map[string]bool, len(recs.Nodes))
	for i, nr := range recs.Nodes {
		if nr.ID == "" {
			errs = append(errs, &RecordError{Kind: "node", Index: i, Err: ErrMissingID})
			continue
		}
		if known[nr.ID] {
			continue
		}
		known[nr.ID] = true
		batch.Nodes = append(batch.Nodes, NewNode(nr.ID, nr.Labels, PropertyList(nr.Properties)))
	}

	exists := func(id string) bool {
		return known[id] || (g != nil && g.Node(id) != nil)
	}
	for i, rr := range recs.Relationships {
		switch {
		case rr.ID == "":
			errs = append(errs, &RecordError{Kind: "relationship", Index: i, Err: ErrMissingID})
		case rr.Type == "":
			errs = append(errs, &RecordError{Kind: "relationship", Index: i, ID: rr.ID, Err: ErrMissingType})
		case !exists(rr.StartNodeID) || !exists(rr.EndNodeID):
			errs = append(errs, &RecordError{Kind: "relationship", Index: i, ID: rr.ID, Err: ErrUnknownEndpoint})
		default:
			batch.Relationships = append(batch.Relationships,
				NewRelationship(rr.ID, rr.StartNodeID, rr.EndNodeID, rr.Type, PropertyList(rr.Properties)))
		}
	}
	return batch, errors.Join(errs...)
}

// Ingest converts records and adds the valid ones to g as first-class
// entities. The returned error lists rejected records.
func (g *Graph) Ingest(recs Records) error {
	batch, err := Convert(g, recs)
	g.AddNodes(batch.Nodes...)
	g.AddRelationships(batch.Relationships...)
	return err
}

// PropertyList turns a raw property map into an ordered, display-formatted
// list sorted by key.
func PropertyList(props map[string]any) []Property {
	if len(props) == 0 {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]Property, 0, len(keys))
	for _, k := range keys {
		value, typ := FormatValue(props[k])
		list = append(list, Property{Key: k, Value: value, Type: typ})
	}
	return list
}

// FormatValue renders a raw property value and names its type.
func FormatValue(v any) (string, string) {
	switch t := v.(type) {
	case nil:
		return "null", "Null"
	case string:
		return t, "String"
	case bool:
		return strconv.FormatBool(t), "Boolean"
	case int:
		return strconv.Itoa(t), "Integer"
	case int64:
		return strconv.FormatInt(t, 10), "Integer"
	case int32:
		return strconv.FormatInt(int64(t), 10), "Integer"
	case uint64:
		return strconv.FormatUint(t, 10), "Integer"
	case float32:
		return formatFloat(float64(t)), "Float"
	case float64:
		return formatFloat(t), "Float"
	case []any, []string, []int64, []float64:
		return marshalValue(t), "List"
	case map[string]any:
		return marshalValue(t), "Map"
	default:
		return fmt.Sprint(t), fmt.Sprintf("%T", t)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func marshalValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
