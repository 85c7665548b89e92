package domain

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn, forwarded verbatim to the model host.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// QueryType selects how the search index retrieves grounding documents.
type QueryType string

const (
	QueryTypeSimple             QueryType = "simple"
	QueryTypeSemantic           QueryType = "semantic"
	QueryTypeVector             QueryType = "vector"
	QueryTypeVectorSimpleHybrid QueryType = "vector_simple_hybrid"
)

// DefaultQueryType is used when the caller does not ask for a specific
// retrieval mode: hybrid vector + keyword search.
const DefaultQueryType = QueryTypeVectorSimpleHybrid

func (q QueryType) Valid() bool {
	switch q {
	case QueryTypeSimple, QueryTypeSemantic, QueryTypeVector, QueryTypeVectorSimpleHybrid:
		return true
	default:
		return false
	}
}

// Citation references a source document returned alongside a grounded completion.
type Citation struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	URL      string `json:"url,omitempty"`
	Filepath string `json:"filepath,omitempty"`
	ChunkID  string `json:"chunk_id,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the reshaped upstream completion. Citations is always
// non-nil so it serializes as an array.
type ChatResult struct {
	Message   string     `json:"message"`
	Citations []Citation `json:"citations"`
	Usage     Usage      `json:"usage"`
}

type Embedding struct {
	Vector []float32 `json:"vector"`
}

func (e Embedding) Dimensions() int {
	return len(e.Vector)
}
