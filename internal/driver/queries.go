package driver

// Meeting, Person and Topic are identity nodes: MERGE on the unique key,
// then overwrite the remaining attributes.
const (
	MergeMeetingQuery = `
		MERGE (m:Meeting {title: $title})
		SET m.date = $date
		RETURN m.title AS title
	`

	MergePersonQuery = `
		MERGE (p:Person {name: $name})
		SET p.role = $role
		RETURN p.name AS name
	`

	MergeTopicQuery = `
		MERGE (t:Topic {name: $name})
		SET t.description = $description
		RETURN t.name AS name
	`
)

// Decision, ActionItem and Commitment carry no dedup key: re-processing the
// same transcript creates them again.
const (
	CreateDecisionQuery = `
		CREATE (d:Decision {description: $description})
		RETURN d.description AS description
	`

	CreateActionItemQuery = `
		CREATE (a:ActionItem {
			description: $description,
			deadline: $deadline,
			priority: $priority,
			status: 'pending'
		})
		RETURN a.description AS description
	`

	CreateCommitmentQuery = `
		CREATE (c:Commitment {description: $description})
		RETURN c.description AS description
	`
)

const (
	// listKeysQueryTemplate fetches the identifying property values of a
	// label, used as matcher candidates. Label and property names come from
	// code-owned constants, never from user input.
	listKeysQueryTemplate = `MATCH (n:%s) WHERE n.%s IS NOT NULL RETURN n.%s AS value`

	// mergeRelationshipQueryTemplate inserts the typed relationship between
	// two exactly-resolved endpoints unless it already exists.
	mergeRelationshipQueryTemplate = `
		MATCH (a:%s) WHERE a.%s = $from_value
		MATCH (b:%s) WHERE b.%s = $to_value
		MERGE (a)-[r:%s]->(b)
		RETURN type(r) AS rel
	`

	countByLabelTemplate = `MATCH (n:%s) RETURN count(n) AS count`

	ClearAllQuery = `MATCH (n) DETACH DELETE n`
)
