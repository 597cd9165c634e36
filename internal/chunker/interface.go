package chunker

// Chunker splits transcript text into overlapping windows.
type Chunker interface {
	// Chunk returns chunks covering text with no gaps, in order.
	Chunk(text string) []Chunk
}

// Chunk is a contiguous range of a transcript plus the overlap copied from before it.
// Text is raw[Start-Overlap:End]; Start:End is the content owned by this chunk.
type Chunk struct {
	Index   int
	Start   int
	End     int
	Overlap int
	Text    string
}

// Len returns the chunk size including overlap.
func (c Chunk) Len() int {
	return c.End - c.Start + c.Overlap
}

// Content returns the part of Text owned by this chunk, without the overlap.
func (c Chunk) Content() string {
	return c.Text[c.Overlap:]
}

// OverlapText returns the overlap prefix of Text.
func (c Chunk) OverlapText() string {
	return c.Text[:c.Overlap]
}
