package news

import (
	"testing"
)

func TestParseRSS2(t *testing.T) {
	rssData := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>テストニュース</title>
    <link>https://example.com</link>
    <item>
      <title>  速報：テスト記事1  </title>
      <link>https://example.com/item1</link>
      <guid>item-1</guid>
      <pubDate>Mon, 03 Jul 2023 10:00:00 +0900</pubDate>
    </item>
    <item>
      <title>テスト記事2</title>
      <link>https://example.com/item2</link>
    </item>
  </channel>
</rss>`

	parser := NewParser()
	items, err := parser.Run([]byte(rssData))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	if items[0].Title != "速報：テスト記事1" {
		t.Errorf("Expected trimmed title, got: %q", items[0].Title)
	}
	if items[0].GUID != "item-1" {
		t.Errorf("Expected GUID 'item-1', got: %s", items[0].GUID)
	}
	if items[0].PublishedAt == nil {
		t.Fatal("Expected first item to have a publish date")
	}
	if items[0].PublishedAt.UTC().Hour() != 1 {
		t.Errorf("Expected publish hour 01 UTC, got: %v", items[0].PublishedAt.UTC())
	}

	if items[1].GUID != "https://example.com/item2" {
		t.Errorf("Expected GUID to fall back to link, got: %s", items[1].GUID)
	}
	if items[1].PublishedAt != nil {
		t.Errorf("Expected no publish date, got: %v", items[1].PublishedAt)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>Atom Entry</title>
    <link href="https://example.com/entry"/>
    <id>urn:uuid:1</id>
    <updated>2023-07-03T10:00:00Z</updated>
  </entry>
</feed>`

	items, err := NewParser().Run([]byte(atomData))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(items))
	}
	if items[0].Title != "Atom Entry" {
		t.Errorf("Expected title 'Atom Entry', got: %s", items[0].Title)
	}
	if items[0].PublishedAt == nil {
		t.Error("Expected updated date to stand in for publish date")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := NewParser().Run([]byte("this is not a feed")); err == nil {
		t.Error("Expected error for invalid feed data")
	}
}
