package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/ru"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for archive entries.
//
// Descriptions and tag names are analyzed with the Russian stemmer so that
// "море" matches "моря" and "морем". The owner is a keyword field used only
// as a filter.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = ru.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = ru.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = ru.AnalyzerName
	tagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	userFieldMapping := bleve.NewKeywordFieldMapping()
	userFieldMapping.Analyzer = keyword.Name
	userFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("user_id", userFieldMapping)

	dateFieldMapping := bleve.NewKeywordFieldMapping()
	dateFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("date", dateFieldMapping)

	idFieldMapping := bleve.NewNumericFieldMapping()
	idFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("content_id", idFieldMapping)

	mediaFieldMapping := bleve.NewNumericFieldMapping()
	mediaFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("media_count", mediaFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
