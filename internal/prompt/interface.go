package prompt

// Template names.
const (
	Summary   = "summary"
	Chunk     = "chunk"
	Synthesis = "synthesis"
)

// Assembler fills named templates with meeting values.
type Assembler interface {
	// Build renders the named template. Placeholders with no value are replaced
	// with "" and returned in missing, in order of first appearance.
	Build(name string, values Values) (text string, missing []string, err error)
	// Instructions returns the focus instructions for a meeting kind such as
	// "technical" or "standup". Unknown kinds get the general_sync text.
	Instructions(kind string) string
}

// Values maps placeholder names (without braces) to their text.
type Values map[string]string
