package vectorstore

import (
	"net/url"
	"reflect"
	"strconv"
	"testing"
)

// TestQdrantURLParsing tests the URL parsing logic without creating a real
// client, to avoid connection warnings in unit tests.
func TestQdrantURLParsing(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://qdrant.internal:9000",
			wantHost: "qdrant.internal",
			wantPort: 9001,
		},
		{
			name:     "URL without port",
			urlStr:   "http://localhost",
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost",
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedURL, err := url.Parse(tt.urlStr)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}

			host := parsedURL.Hostname()
			if host == "" {
				host = "localhost"
			}
			port := 6334
			if parsedURL.Port() != "" {
				if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
					port = httpPort + 1
				}
			}

			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %d, want %d", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	if _, err := NewQdrantStore("://invalid"); err == nil {
		t.Fatal("NewQdrantStore() should reject an unparseable URL")
	}
}

func TestToPayload(t *testing.T) {
	meta := map[string]any{
		"headings":      []string{"2", "2.4"},
		"chunk_index":   3,
		"document_name": "spec.docx",
		"origin":        map[string]any{"filename": "spec.docx"},
	}

	payload, err := toPayload("chunk body", meta)
	if err != nil {
		t.Fatalf("toPayload() error = %v", err)
	}

	if payload["text"] != "chunk body" {
		t.Errorf("payload text = %v, want chunk body", payload["text"])
	}
	// The JSON round trip flattens typed slices and numbers to plain types.
	wantHeadings := []any{"2", "2.4"}
	if !reflect.DeepEqual(payload["headings"], wantHeadings) {
		t.Errorf("payload headings = %v, want %v", payload["headings"], wantHeadings)
	}
	if payload["chunk_index"] != float64(3) {
		t.Errorf("payload chunk_index = %v (%T), want 3", payload["chunk_index"], payload["chunk_index"])
	}
	if _, ok := payload["origin"].(map[string]any); !ok {
		t.Errorf("payload origin = %v (%T), want nested map", payload["origin"], payload["origin"])
	}

	// The source meta map must not be mutated.
	if _, ok := meta["text"]; ok {
		t.Error("toPayload() mutated the input meta map")
	}
}
