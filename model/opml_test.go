package model

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestOPMLFeeds(t *testing.T) {
	tests := []struct {
		name     string
		opml     string
		expected []FeedEntry
		wantErr  bool
	}{
		{
			name: "flat OPML",
			opml: `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
	<head>
		<title>Test Feeds</title>
	</head>
	<body>
		<outline text="Tech News" title="TechCrunch" xmlUrl="https://techcrunch.com/feed/" htmlUrl="https://techcrunch.com"/>
		<outline text="Security" xmlUrl="https://krebsonsecurity.com/feed/" />
	</body>
</opml>`,
			expected: []FeedEntry{
				{Title: "TechCrunch", FeedURL: "https://techcrunch.com/feed/", HTMLURL: "https://techcrunch.com", Category: UncategorizedLabel},
				{Title: "Security", FeedURL: "https://krebsonsecurity.com/feed/", Category: UncategorizedLabel},
			},
		},
		{
			name: "nested OPML with categories",
			opml: `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
	<body>
		<outline text="Technology" title="Technology">
			<outline text="TechCrunch" xmlUrl="https://techcrunch.com/feed/" />
			<outline text="The Verge" xmlUrl="https://www.theverge.com/rss/index.xml" />
		</outline>
		<outline text="Security" title="Security">
			<outline text="Krebs" xmlUrl="https://krebsonsecurity.com/feed/" />
		</outline>
	</body>
</opml>`,
			expected: []FeedEntry{
				{Title: "TechCrunch", FeedURL: "https://techcrunch.com/feed/", Category: "Technology"},
				{Title: "The Verge", FeedURL: "https://www.theverge.com/rss/index.xml", Category: "Technology"},
				{Title: "Krebs", FeedURL: "https://krebsonsecurity.com/feed/", Category: "Security"},
			},
		},
		{
			name: "nearest category wins on deep nesting",
			opml: `<opml version="1.0">
	<body>
		<outline text="Outer">
			<outline text="Middle">
				<outline text="Inner">
					<outline text="Deep" xmlUrl="https://deep.example.com/rss" />
				</outline>
				<outline text="Shallow" xmlUrl="https://shallow.example.com/rss" />
			</outline>
		</outline>
	</body>
</opml>`,
			expected: []FeedEntry{
				{Title: "Deep", FeedURL: "https://deep.example.com/rss", Category: "Inner"},
				{Title: "Shallow", FeedURL: "https://shallow.example.com/rss", Category: "Middle"},
			},
		},
		{
			name: "untitled category and untitled feed",
			opml: `<opml version="1.0">
	<body>
		<outline text="Named">
			<outline>
				<outline xmlUrl="https://anon.example.com/rss" />
			</outline>
		</outline>
	</body>
</opml>`,
			expected: []FeedEntry{
				{Title: "Unknown", FeedURL: "https://anon.example.com/rss", Category: "Named"},
			},
		},
		{
			name: "feed nested under a feed skips to the category",
			opml: `<opml version="1.0">
	<body>
		<outline text="News">
			<outline text="Parent" xmlUrl="https://parent.example.com/rss">
				<outline text="Child" xmlUrl="https://child.example.com/rss" />
			</outline>
		</outline>
	</body>
</opml>`,
			expected: []FeedEntry{
				{Title: "Parent", FeedURL: "https://parent.example.com/rss", Category: "News"},
				{Title: "Child", FeedURL: "https://child.example.com/rss", Category: "News"},
			},
		},
		{
			name: "declared latin-1 encoding",
			opml: "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<opml version=\"1.0\"><body><outline text=\"Caf\xe9\"><outline text=\"Men\xfa\" xmlUrl=\"https://cafe.example.com/rss\"/></outline></body></opml>",
			expected: []FeedEntry{
				{Title: "Menú", FeedURL: "https://cafe.example.com/rss", Category: "Café"},
			},
		},
		{
			name: "empty OPML",
			opml: `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
	<head>
		<title>Empty</title>
	</head>
	<body>
	</body>
</opml>`,
			expected: []FeedEntry{},
		},
		{
			name: "invalid XML",
			opml: `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
	<head>
		<title>Invalid XML</title>
	<body>
		<outline text="Missing closing tag" xmlUrl="https://example.com/feed.xml" />
	</body>
</opml>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseOPML([]byte(tt.opml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOPML() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var feedErr *FeedError
				if !errors.As(err, &feedErr) || feedErr.ErrorType != ErrorTypeParsing {
					t.Errorf("expected a parsing FeedError, got %v", err)
				}
				return
			}
			feeds := doc.Feeds()
			if !reflect.DeepEqual(feeds, tt.expected) {
				t.Errorf("Feeds() = %+v, want %+v", feeds, tt.expected)
			}
		})
	}
}

func TestOPMLCategories(t *testing.T) {
	doc, err := ParseOPML([]byte(`<opml version="1.0">
	<body>
		<outline text="Tech">
			<outline text="Go">
				<outline text="Blog" xmlUrl="https://go.dev/blog/feed.atom" />
			</outline>
		</outline>
		<outline text="News" />
		<outline text="Tech" />
		<outline text="Loose" xmlUrl="https://loose.example.com/rss" />
	</body>
</opml>`))
	if err != nil {
		t.Fatalf("ParseOPML() error = %v", err)
	}

	expected := []string{"Tech", "Go", "News"}
	if got := doc.Categories(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Categories() = %v, want %v", got, expected)
	}
}

func TestLoadFeedsFromOPML(t *testing.T) {
	tmpDir := t.TempDir()
	opmlFile := filepath.Join(tmpDir, "test.opml")

	opmlContent := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
	<head>
		<title>Test Feeds</title>
	</head>
	<body>
		<outline text="Feed 1" xmlUrl="https://example.com/feed1.xml" />
		<outline text="Feed 2" xmlUrl="https://example.com/feed2.xml" />
	</body>
</opml>`
	if err := os.WriteFile(opmlFile, []byte(opmlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test OPML file: %v", err)
	}

	doc, feeds, err := LoadFeedsFromOPML(opmlFile)
	if err != nil {
		t.Fatalf("LoadFeedsFromOPML() error = %v", err)
	}
	if doc.Head.Title != "Test Feeds" {
		t.Errorf("Head.Title = %q, want %q", doc.Head.Title, "Test Feeds")
	}

	var urls []string
	for _, f := range feeds {
		urls = append(urls, f.FeedURL)
	}
	expected := []string{
		"https://example.com/feed1.xml",
		"https://example.com/feed2.xml",
	}
	if !reflect.DeepEqual(urls, expected) {
		t.Errorf("LoadFeedsFromOPML() = %v, want %v", urls, expected)
	}
}

func TestLoadFeedsFromOPML_NoFeeds(t *testing.T) {
	tmpDir := t.TempDir()
	opmlFile := filepath.Join(tmpDir, "empty.opml")
	content := `<opml version="2.0"><body><outline text="Empty Category"><outline text="Another Empty Category" /></outline></body></opml>`
	if err := os.WriteFile(opmlFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test OPML file: %v", err)
	}

	_, _, err := LoadFeedsFromOPML(opmlFile)
	var feedErr *FeedError
	if !errors.As(err, &feedErr) {
		t.Fatalf("expected FeedError, got %v", err)
	}
	if feedErr.ErrorType != ErrorTypeConfiguration {
		t.Errorf("ErrorType = %s, want %s", feedErr.ErrorType, ErrorTypeConfiguration)
	}
	if feedErr.Path != opmlFile {
		t.Errorf("Path = %q, want %q", feedErr.Path, opmlFile)
	}
}

func TestLoadOPMLFromFile_NonExistent(t *testing.T) {
	_, err := LoadOPMLFromFile("/nonexistent/file.opml")
	if err == nil {
		t.Fatal("LoadOPMLFromFile() should return error for non-existent file")
	}

	if !strings.Contains(err.Error(), "failed to read OPML file") {
		t.Errorf("Expected file error, got: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the cause to be os.ErrNotExist, got %v", err)
	}
}

func TestLoadOPMLFromFile_AttachesPathToParseErrors(t *testing.T) {
	opmlFile := filepath.Join(t.TempDir(), "broken.opml")
	if err := os.WriteFile(opmlFile, []byte("<opml><body>"), 0o644); err != nil {
		t.Fatalf("Failed to create test OPML file: %v", err)
	}

	_, err := LoadOPMLFromFile(opmlFile)
	var feedErr *FeedError
	if !errors.As(err, &feedErr) {
		t.Fatalf("expected FeedError, got %v", err)
	}
	if feedErr.ErrorType != ErrorTypeParsing || feedErr.Path != opmlFile {
		t.Errorf("got type %s path %q", feedErr.ErrorType, feedErr.Path)
	}
}

// BenchmarkOPMLFeeds measures parsing plus category inference
func BenchmarkOPMLFeeds(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
	<head>
		<title>Large Feed Collection</title>
	</head>
	<body>`)

	for i := 0; i < 10; i++ {
		sb.WriteString(`
		<outline text="Category ` + string(rune('A'+i)) + `">`)
		for j := 0; j < 10; j++ {
			sb.WriteString(`
			<outline text="Feed ` + strconv.Itoa(j) + `" xmlUrl="https://example` + strconv.Itoa(j) + `.com/feed.xml" />`)
		}
		sb.WriteString(`
		</outline>`)
	}
	sb.WriteString(`
	</body>
</opml>`)

	opmlBytes := []byte(sb.String())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc, err := ParseOPML(opmlBytes)
		if err != nil {
			b.Fatalf("Benchmark failed: %v", err)
		}
		if len(doc.Feeds()) != 100 {
			b.Fatal("expected 100 feeds")
		}
	}
}
