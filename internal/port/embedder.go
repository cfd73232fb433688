package port

// Role selects the asymmetric embedding convention. Models like e5 expect a
// "query: " or "passage: " prefix on the input text; mixing the roles up
// degrades ranking quality silently, so Embed always takes one explicitly.
type Role string

const (
	RoleQuery   Role = "query"
	RolePassage Role = "passage"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed returns one vector per input text, L2-normalized so that inner
	// product equals cosine similarity. The role prefix is applied to each
	// input before encoding.
	Embed(texts []string, role Role) ([][]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}
