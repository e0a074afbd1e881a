package parser

// Parser extracts plain text from a file on disk. Extractors keep the
// form feed page separator where the source format has pages, so that
// downstream paragraph reconstruction can see page boundaries.
type Parser interface {
	Parse(filePath string) (string, error)
}
