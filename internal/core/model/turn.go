package model

// Turn is one completed exchange in a conversation: the user's question, the
// Cypher generated for it and the synthesized answer.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Cypher   string `json:"cypher"`
}

// QueryResult is the full output of one pipeline pass, kept for the caller
// and appended (as a Turn) to the conversation.
type QueryResult struct {
	Question         string           `json:"question"`
	Cypher           string           `json:"cypher"`
	Rows             []map[string]any `json:"raw_results"`
	FormattedResults string           `json:"formatted_results"`
	Answer           string           `json:"answer"`
}

// BuildStats counts what one transcript contributed to the graph.
type BuildStats struct {
	Meetings      int `json:"meetings"`
	People        int `json:"people"`
	Topics        int `json:"topics"`
	Decisions     int `json:"decisions"`
	ActionItems   int `json:"action_items"`
	Commitments   int `json:"commitments"`
	Relationships int `json:"relationships"`
}
