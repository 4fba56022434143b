package media

// Analyzer produces a textual description of an uploaded image. The real
// implementation will call a vision API; Placeholder stands in until then.
type Analyzer interface {
	Analyze(ref string) string
}

// Placeholder is the stand-in vision step. It returns a fixed description
// for every image and never looks at the bytes.
type Placeholder struct{}

// Analyze returns the fixed placeholder description.
func (Placeholder) Analyze(ref string) string {
	return "A high-resolution capture processed by InstaClawd Vision."
}
