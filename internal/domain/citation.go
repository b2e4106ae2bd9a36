package domain

// Citation is a retrieved passage with provenance metadata supporting an answer.
// Citations are produced fresh per request and only ever embedded in a response.
type Citation struct {
	docID   string
	chunkID string
	text    string
	score   float64
	meta    map[string]any
}

// NewCitation creates a citation.
func NewCitation(docID, chunkID, text string, score float64, meta map[string]any) Citation {
	return Citation{docID: docID, chunkID: chunkID, text: text, score: score, meta: meta}
}

// DocID returns the source document identifier.
func (c *Citation) DocID() string { return c.docID }

// ChunkID returns the chunk identifier within the document.
func (c *Citation) ChunkID() string { return c.chunkID }

// Text returns the cited passage.
func (c *Citation) Text() string { return c.text }

// Score returns the relevance score in [0,1].
func (c *Citation) Score() float64 { return c.score }

// Meta returns provenance metadata.
func (c *Citation) Meta() map[string]any { return c.meta }
