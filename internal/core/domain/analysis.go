package domain

// QueryCandidate is one (table, column) pair the planner judged likely to
// answer the user's question.
type QueryCandidate struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// ResultSet is the outcome of a read query, with column order preserved.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

func (r *ResultSet) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Answer is what the agent returns for a question: the conversational text
// and, for data questions, the SQL that produced it.
type Answer struct {
	Text string
	SQL  string
}
