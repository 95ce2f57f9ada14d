package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"docsection/internal/vectorstore/mocks"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(store *mocks.MockVectorStore)
		wantCode      int
		wantStatus    string
		wantDocLoaded bool
	}{
		{
			name: "loaded collection",
			setup: func(store *mocks.MockVectorStore) {
				store.EXPECT().CollectionExists(gomock.Any(), "docs").Return(true, nil)
				store.EXPECT().Count(gomock.Any(), "docs").Return(42, nil)
			},
			wantCode:      http.StatusOK,
			wantStatus:    "ok",
			wantDocLoaded: true,
		},
		{
			name: "missing collection",
			setup: func(store *mocks.MockVectorStore) {
				store.EXPECT().CollectionExists(gomock.Any(), "docs").Return(false, nil)
			},
			wantCode:      http.StatusOK,
			wantStatus:    "ok",
			wantDocLoaded: false,
		},
		{
			name: "empty collection",
			setup: func(store *mocks.MockVectorStore) {
				store.EXPECT().CollectionExists(gomock.Any(), "docs").Return(true, nil)
				store.EXPECT().Count(gomock.Any(), "docs").Return(0, nil)
			},
			wantCode:      http.StatusOK,
			wantStatus:    "ok",
			wantDocLoaded: false,
		},
		{
			name: "store unreachable",
			setup: func(store *mocks.MockVectorStore) {
				store.EXPECT().CollectionExists(gomock.Any(), "docs").
					Return(false, errors.New("connection refused"))
			},
			wantCode:      http.StatusServiceUnavailable,
			wantStatus:    "degraded",
			wantDocLoaded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockVectorStore(ctrl)
			tt.setup(store)

			handler := NewHealthHandler(store, "docs")
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantCode)
			}

			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if resp.DocLoaded != tt.wantDocLoaded {
				t.Errorf("doc_loaded = %v, want %v", resp.DocLoaded, tt.wantDocLoaded)
			}
			if resp.Timestamp == "" {
				t.Error("timestamp should be set")
			}
		})
	}
}
