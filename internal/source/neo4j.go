package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// Neo4jConfig is the connection and query setup of a Neo4j source.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
	// ExpandRate caps expand round trips per second. Zero disables the
	// limit.
	ExpandRate float64
	Timeout    time.Duration
	// InitialQuery may return nodes, relationships, paths, or lists and
	// maps of them.
	InitialQuery string
}

const (
	neighboursQuery = `MATCH (a) WHERE elementId(a) = $id
MATCH (a)-[r]-(b)
WITH b, collect(r) AS rels
ORDER BY elementId(b)
LIMIT $limit
RETURN b, rels`

	neighbourCountQuery = `MATCH (a)--(b) WHERE elementId(a) = $id
RETURN count(DISTINCT b) AS total`

	betweenQuery = `MATCH (a)-[r]->(b)
WHERE elementId(a) IN $ids AND elementId(b) IN $ids
RETURN r`
)

// Neo4j reads graph records from a Neo4j database.
type Neo4j struct {
	cfg     Neo4jConfig
	driver  neo4j.DriverWithContext
	limiter *rate.Limiter
	log     *slog.Logger
}

// OpenNeo4j connects to the database and verifies connectivity.
func OpenNeo4j(ctx context.Context, cfg Neo4jConfig, log *slog.Logger) (*Neo4j, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.ConnectionAcquisitionTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connecting to %s: %w", cfg.URI, err)
	}

	limit := rate.Inf
	if cfg.ExpandRate > 0 {
		limit = rate.Limit(cfg.ExpandRate)
	}
	log.Info("connected to neo4j", "uri", cfg.URI, "database", cfg.Database)
	return &Neo4j{
		cfg:     cfg,
		driver:  driver,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}, nil
}

// Close implements Source.
func (s *Neo4j) Close(ctx context.Context) error {
	if err := s.driver.Close(ctx); err != nil {
		return fmt.Errorf("closing neo4j driver: %w", err)
	}
	return nil
}

func (s *Neo4j) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.cfg.Database,
	})
	defer session.Close(ctx)

	start := time.Now()
	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	records := result.([]*neo4j.Record)
	s.log.Debug("query done", "records", len(records), "elapsed", time.Since(start))
	return records, nil
}

// Initial implements Source.
func (s *Neo4j) Initial(ctx context.Context) (graphmodel.Records, error) {
	records, err := s.read(ctx, s.cfg.InitialQuery, nil)
	if err != nil {
		return graphmodel.Records{}, fmt.Errorf("running initial query: %w", err)
	}
	var c collector
	for _, rec := range records {
		for _, v := range rec.Values {
			c.add(v)
		}
	}
	return c.recs, nil
}

// Expand implements Source. The neighbour rows and the neighbour count are
// fetched concurrently.
func (s *Neo4j) Expand(ctx context.Context, nodeID string, limit int) (Expansion, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Expansion{}, err
	}
	if limit <= 0 {
		limit = 1 << 20
	}
	params := map[string]any{"id": nodeID, "limit": int64(limit)}

	var (
		exp Expansion
		c   collector
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.read(gctx, neighboursQuery, params)
		if err != nil {
			return fmt.Errorf("fetching neighbours of %s: %w", nodeID, err)
		}
		for _, rec := range records {
			for _, v := range rec.Values {
				c.add(v)
			}
		}
		return nil
	})
	g.Go(func() error {
		records, err := s.read(gctx, neighbourCountQuery, params)
		if err != nil {
			return fmt.Errorf("counting neighbours of %s: %w", nodeID, err)
		}
		if len(records) > 0 {
			if total, ok := records[0].Get("total"); ok {
				if n, ok := total.(int64); ok {
					exp.Total = int(n)
				}
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Expansion{}, err
	}
	exp.Records = c.recs
	s.log.Debug("expanded", "node", nodeID, "neighbours", len(exp.Records.Nodes), "total", exp.Total)
	return exp, nil
}

// Between implements Source.
func (s *Neo4j) Between(ctx context.Context, ids []string) ([]graphmodel.RelationshipRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	records, err := s.read(ctx, betweenQuery, map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("fetching internal relationships: %w", err)
	}
	var c collector
	for _, rec := range records {
		for _, v := range rec.Values {
			c.add(v)
		}
	}
	return c.recs.Relationships, nil
}

// collector flattens driver values into deduplicated records.
type collector struct {
	recs  graphmodel.Records
	nodes map[string]bool
	rels  map[string]bool
}

func (c *collector) add(v any) {
	if c.nodes == nil {
		c.nodes = make(map[string]bool)
		c.rels = make(map[string]bool)
	}
	switch t := v.(type) {
	case dbtype.Node:
		c.addNode(t)
	case dbtype.Relationship:
		c.addRelationship(t)
	case dbtype.Path:
		for _, n := range t.Nodes {
			c.addNode(n)
		}
		for _, r := range t.Relationships {
			c.addRelationship(r)
		}
	case []any:
		for _, item := range t {
			c.add(item)
		}
	case map[string]any:
		for _, item := range t {
			c.add(item)
		}
	}
}

func (c *collector) addNode(n dbtype.Node) {
	if c.nodes[n.ElementId] {
		return
	}
	c.nodes[n.ElementId] = true
	c.recs.Nodes = append(c.recs.Nodes, graphmodel.NodeRecord{
		ID:         n.ElementId,
		Labels:     n.Labels,
		Properties: plainProps(n.Props),
	})
}

func (c *collector) addRelationship(r dbtype.Relationship) {
	if c.rels[r.ElementId] {
		return
	}
	c.rels[r.ElementId] = true
	c.recs.Relationships = append(c.recs.Relationships, graphmodel.RelationshipRecord{
		ID:          r.ElementId,
		Type:        r.Type,
		StartNodeID: r.StartElementId,
		EndNodeID:   r.EndElementId,
		Properties:  plainProps(r.Props),
	})
}

// plainProps replaces driver-specific values (temporal, spatial) with
// their string form so they display like the browser shows them.
func plainProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int64, float64:
		return t
	case []any:
		list := make([]any, len(t))
		for i, item := range t {
			list[i] = plainValue(item)
		}
		return list
	case map[string]any:
		return plainProps(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
