package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexigraph/lexigraph/internal/errs"
)

type Neo4jDriver struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jDriver connects and verifies connectivity up front, so an
// unreachable or unauthenticated store fails at startup.
func NewNeo4jDriver(ctx context.Context, uri, username, password string) (*Neo4jDriver, error) {
	d, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errs.New(errs.KindConnection, "failed to create neo4j driver", err)
	}
	if err := d.VerifyConnectivity(ctx); err != nil {
		return nil, errs.New(errs.KindConnection, "neo4j is unreachable", err)
	}
	return &Neo4jDriver{driver: d}, nil
}

// Run executes the query in a one-shot transaction and returns rows as
// key-value mappings. Query syntax errors propagate unchanged.
func (d *Neo4jDriver) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
	}
	return rows, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}
