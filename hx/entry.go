package hx

// Entry is one typed record in a container, addressed by its CUUID.
type Entry struct {
	CUUID uint64
	Class Class
	Body  any

	Offset uint32
	Size   uint32

	// Links and LanguageLinks are only populated for IndexType 2
	// containers; they are index-table metadata, distinct from any
	// language links embedded in a body (e.g. WavResData.LanguageLinks).
	Links         []uint64
	LanguageLinks []LanguageLink
}
