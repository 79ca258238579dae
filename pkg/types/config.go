package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litrec/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMBackend identifies the LLM inference backend.
type LLMBackend string

const (
	BackendOpenRouter LLMBackend = "openrouter"
	BackendOllama     LLMBackend = "ollama"
)

// LLMConfig holds shared settings for stages that call an LLM endpoint.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the inference backend: openrouter or ollama.
	Backend LLMBackend `json:"backend" yaml:"backend"`

	// Model is the model identifier (e.g. "meta-llama/llama-3.3-70b-instruct:free").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the OpenRouter backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Defaults to the OpenRouter API
	// for the openrouter backend and http://localhost:11434 for ollama.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens caps the completion length (0 = backend default).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature (default 0).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// RequestInterval is the minimum delay between consecutive requests
	// (default 3.1s, matching free-tier API rate limits).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`
}

// CorpusConfig holds settings for the corpus fetch and build stages.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the base directory for pipeline data (contains raw/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DBPath is the corpus SQLite database path (default data/corpus.db).
	DBPath string `json:"db_path" yaml:"db_path"`

	// MinPapers is the minimum paper count for a candidate author (default 5).
	MinPapers int `json:"min_papers" yaml:"min_papers"`
}

// SampleConfig holds settings for the user sampling stage.
type SampleConfig struct {
	// NumAuthors is the number of users to sample (default 1050).
	NumAuthors int `json:"num_authors" yaml:"num_authors"`

	// MinPapers and MaxPapers bound the paper count of eligible authors
	// (defaults 10 and 500).
	MinPapers int `json:"min_papers" yaml:"min_papers"`
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// Seed fixes the sampling random source (default 42).
	Seed int64 `json:"seed" yaml:"seed"`
}

// CandidateConfig holds settings for candidate pool generation.
type CandidateConfig struct {
	// NumCandidates is the target candidate pool size (default 1000).
	NumCandidates int `json:"num_candidates" yaml:"num_candidates"`

	// Seed fixes the negative-sampling random source (default 40).
	Seed int64 `json:"seed" yaml:"seed"`
}

// DatasetConfig holds settings for the dataset generation stage.
type DatasetConfig struct {
	Candidates CandidateConfig `json:"candidates" yaml:"candidates"`

	// SplitsPath is the YAML manifest mapping splits to profile
	// generation configurations (model + prompt variant).
	SplitsPath string `json:"splits_path" yaml:"splits_path"`

	// AuthorSplitsPath is the CSV file assigning each author to a split.
	AuthorSplitsPath string `json:"author_splits_path" yaml:"author_splits_path"`
}

// RetrievalMethod identifies the first-stage retrieval method.
type RetrievalMethod string

const (
	MethodSparse RetrievalMethod = "sparse"
	MethodDense  RetrievalMethod = "dense"
)

// RetrievalConfig holds settings for the retrieval stage.
type RetrievalConfig struct {
	// Method selects the retriever: sparse (BM25) or dense (embeddings).
	Method RetrievalMethod `json:"method" yaml:"method"`

	// TopK is the number of results per author (default 100).
	TopK int `json:"top_k" yaml:"top_k"`

	// RunID labels the run in the TREC output (default "litrec").
	RunID string `json:"run_id" yaml:"run_id"`

	// IndexPath is the candidate docs SQLite index path (default data/docs.db).
	IndexPath string `json:"index_path" yaml:"index_path"`
}

// RerankConfig holds settings for the pairwise LLM reranking stage.
type RerankConfig struct {
	LLM LLMConfig `json:"llm" yaml:"llm"`

	// SlidingK is the maximum number of bottom-up passes (default 10).
	SlidingK int `json:"sliding_k" yaml:"sliding_k"`

	// RunID labels the run in the TREC output (default "llm_rerank").
	RunID string `json:"run_id" yaml:"run_id"`

	// QueryLimit caps the number of queries processed (0 = all).
	QueryLimit int `json:"query_limit" yaml:"query_limit"`
}

// EvalConfig holds settings for the evaluation stage.
type EvalConfig struct {
	// Cutoffs lists the rank cutoffs for Recall@K and NDCG@K (default 10, 100).
	Cutoffs []int `json:"cutoffs" yaml:"cutoffs"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus"`
	Sample    SampleConfig    `json:"sample" yaml:"sample"`
	Dataset   DatasetConfig   `json:"dataset" yaml:"dataset"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Rerank    RerankConfig    `json:"rerank" yaml:"rerank"`
	Eval      EvalConfig      `json:"eval" yaml:"eval"`
}
