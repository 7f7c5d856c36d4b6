package indexbuild

// MetaIndex is the decoded shape of the pagefind.{hash}.pf_meta artifact:
// everything a search session needs to know which other artifacts to load.
type MetaIndex struct {
	Version     string
	Pages       []MetaPage
	IndexChunks []MetaChunk
	Filters     []MetaFilter
	Sorts       []MetaSort
}

// MetaPage is one page's fragment hash and word count, in page-number
// order.
type MetaPage struct {
	Hash      string
	WordCount uint32
}

// MetaFilter names the filter chunk holding one filter's inverse index.
type MetaFilter struct {
	Filter string
	Hash   string
}
