package feed

import (
	"testing"
)

func TestJSONFeedNormalize(t *testing.T) {
	data := `{
	  "version": "https://jsonfeed.org/version/1.1",
	  "title": "Twitter @testuser",
	  "items": [
	    {
	      "id": "https://twitter.com/testuser/status/1001",
	      "url": "https://x.com/testuser/status/1001",
	      "title": "short title",
	      "content_html": "hello world<br>second line<img src=\"https://example.com/pic.jpg\">",
	      "summary": "hello",
	      "date_published": "2026-01-09T01:36:56.000Z",
	      "authors": [{"name": "Test User", "url": "https://x.com/testuser", "avatar": "https://example.com/avatar.jpg"}]
	    },
	    {
	      "id": "https://example.com/not-a-tweet",
	      "url": "https://example.com/not-a-tweet",
	      "title": "skipped",
	      "content_html": "no status id here"
	    }
	  ]
	}`

	n := NewJSONFeedNormalizer("testuser")
	items, err := n.Normalize([]byte(data))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item (second has no status id), got %d", len(items))
	}

	item := items[0]
	if item.ID != "1001" {
		t.Errorf("Expected ID '1001', got '%s'", item.ID)
	}
	if item.Text != "hello world\nsecond line" {
		t.Errorf("Unexpected text: %q", item.Text)
	}
	if item.URL != "https://x.com/testuser/status/1001" {
		t.Errorf("Unexpected URL: %s", item.URL)
	}
	if len(item.Images) != 1 || item.Images[0] != "https://example.com/pic.jpg" {
		t.Errorf("Unexpected images: %v", item.Images)
	}
	if item.Timestamp != "2026-01-09T01:36:56.000Z" {
		t.Errorf("Unexpected timestamp: %s", item.Timestamp)
	}
	if item.AuthorName != "Test User" {
		t.Errorf("Expected author 'Test User', got '%s'", item.AuthorName)
	}
	if item.AuthorAvatar != "https://example.com/avatar.jpg" {
		t.Errorf("Unexpected avatar: %s", item.AuthorAvatar)
	}
	if item.IsRetweet {
		t.Error("Item should not be a retweet")
	}
}

func TestJSONFeedQuoteExtraction(t *testing.T) {
	data := `{
	  "items": [
	    {
	      "url": "https://x.com/testuser/status/2002",
	      "title": "t",
	      "content_html": "my comment<div class=\"rsshub-quote\"><strong>Quoted Person</strong>: original words</div>"
	    }
	  ]
	}`

	n := NewJSONFeedNormalizer("testuser")
	items, err := n.Normalize([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Text != "my comment" {
		t.Errorf("Quote block should be split out of main text, got %q", item.Text)
	}
	if item.QuoteAuthor != "Quoted Person" {
		t.Errorf("Expected quote author 'Quoted Person', got '%s'", item.QuoteAuthor)
	}
	if item.QuoteText != "Quoted Person: original words" {
		t.Errorf("Unexpected quote text: %q", item.QuoteText)
	}
}

func TestJSONFeedQuoteAuthorFromExtraLinks(t *testing.T) {
	data := `{
	  "items": [
	    {
	      "url": "https://x.com/testuser/status/2003",
	      "content_html": "plain comment, quote markup missing",
	      "_extra": {
	        "links": [
	          {"url": "https://x.com/other/status/77", "type": "quote", "content_html": "<strong>Other Person</strong>: something"}
	        ]
	      }
	    }
	  ]
	}`

	n := NewJSONFeedNormalizer("testuser")
	items, err := n.Normalize([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	if items[0].QuoteAuthor != "Other Person" {
		t.Errorf("Expected quote author from _extra.links, got '%s'", items[0].QuoteAuthor)
	}
}

func TestJSONFeedRetweetDetection(t *testing.T) {
	byPrefix := `{"items":[{"url":"https://x.com/u/status/3001","content_html":"RT @someone: reposted words"}]}`
	byLink := `{"items":[{"url":"https://x.com/u/status/3002","content_html":"shared","_extra":{"links":[{"url":"https://x.com/o/status/9","type":"repost"}]}}]}`
	neither := `{"items":[{"url":"https://x.com/u/status/3003","content_html":"rt lowercase is not a retweet"}]}`

	n := NewJSONFeedNormalizer("u")

	items, _ := n.Normalize([]byte(byPrefix))
	if !items[0].IsRetweet {
		t.Error("Expected RT prefix to mark retweet")
	}

	items, _ = n.Normalize([]byte(byLink))
	if !items[0].IsRetweet {
		t.Error("Expected repost link to mark retweet")
	}

	items, _ = n.Normalize([]byte(neither))
	if items[0].IsRetweet {
		t.Error("Prefix check must be case-sensitive")
	}
}

func TestJSONFeedPrefersLongerTitle(t *testing.T) {
	data := `{
	  "items": [
	    {
	      "url": "https://x.com/u/status/4001",
	      "title": "this title is noticeably longer than the body",
	      "content_html": "tiny"
	    }
	  ]
	}`

	n := NewJSONFeedNormalizer("u")
	items, err := n.Normalize([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	if items[0].Text != "this title is noticeably longer than the body" {
		t.Errorf("Expected title to win when longer, got %q", items[0].Text)
	}
}

func TestJSONFeedURLFallback(t *testing.T) {
	data := `{"items":[{"id":"https://twitter.com/u/status/5001","content_html":"x"}]}`

	n := NewJSONFeedNormalizer("testuser")
	items, err := n.Normalize([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	// URL field absent: the id carries the status link and is used as-is.
	if items[0].URL != "https://twitter.com/u/status/5001" {
		t.Errorf("Unexpected URL: %s", items[0].URL)
	}
}

func TestJSONFeedInvalidPayload(t *testing.T) {
	n := NewJSONFeedNormalizer("u")
	if _, err := n.Normalize([]byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
