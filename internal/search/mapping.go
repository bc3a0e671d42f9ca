package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping maps book documents. Prose fields use English stemming,
// names use the simple analyzer so "Austen" never stems, and status is kept
// verbatim for exact filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	for _, field := range []string{"title", "genre", "notes", "synopsis", "keywords"} {
		m := bleve.NewTextFieldMapping()
		m.Analyzer = en.AnalyzerName
		m.Store = false
		doc.AddFieldMappingsAt(field, m)
	}

	for _, field := range []string{"author", "publisher"} {
		m := bleve.NewTextFieldMapping()
		m.Analyzer = simple.Name
		m.Store = false
		doc.AddFieldMappingsAt(field, m)
	}

	status := bleve.NewTextFieldMapping()
	status.Analyzer = keyword.Name
	doc.AddFieldMappingsAt("status", status)

	doc.AddFieldMappingsAt("hidden", bleve.NewBooleanFieldMapping())

	indexMapping.AddDocumentMapping("_default", doc)
	return indexMapping
}
