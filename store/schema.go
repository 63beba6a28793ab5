package store

import (
	"github.com/google/jsonschema-go/jsonschema"
)

func stringSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func nullable(kind, description string) *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{kind, "null"}, Description: description}
}

// ResultSchema describes one entry of working_feeds or broken_feeds. A fresh
// value is returned each time since a schema may appear only once in a tree.
func ResultSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"title", "url", "html_url", "category", "status"},
		Properties: map[string]*jsonschema.Schema{
			"title":    stringSchema("Feed title from the OPML outline"),
			"url":      stringSchema("Feed URL (xmlUrl)"),
			"html_url": stringSchema("Site URL (htmlUrl)"),
			"category": stringSchema("Nearest category outline, or Uncategorized"),
			"status": {
				Type:        "string",
				Enum:        []any{"working", "failed"},
				Description: "Verdict of the check",
			},
			"error":         nullable("string", "Error detail, null for working feeds"),
			"response_code": nullable("integer", "HTTP status code, null when no response arrived"),
			"content_type":  nullable("string", "Content-Type header of the response"),
			"is_valid_xml": {
				Type:        "boolean",
				Description: "Whether the body parsed as XML",
			},
			"has_rss_elements": {
				Type:        "boolean",
				Description: "Whether feed elements were found",
			},
			"feed_type": stringSchema("Detected feed format of a working feed"),
		},
	}
}

// SnapshotSchema describes an audit snapshot file.
func SnapshotSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"timestamp", "total_tested", "working_count", "broken_count", "working_feeds", "broken_feeds"},
		Properties: map[string]*jsonschema.Schema{
			"timestamp":       stringSchema("When the run finished"),
			"total_tested":    {Type: "integer"},
			"working_count":   {Type: "integer"},
			"broken_count":    {Type: "integer"},
			"working_feeds":   {Type: "array", Items: ResultSchema()},
			"broken_feeds":    {Type: "array", Items: ResultSchema()},
			"recovered_count": {Type: "integer"},
			"derived_from":    stringSchema("Timestamp of the snapshot a recheck started from"),
		},
	}
}
