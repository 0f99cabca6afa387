package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRClient_NotConfigured(t *testing.T) {
	client := NewOCRClient("", 0)
	assert.False(t, client.Ready())

	_, err := client.Recognize(context.Background(), []byte{1, 2, 3}, "scan.png")
	assert.Error(t, err)
}

func TestOCRClient_Recognize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "scan.png", r.Header.Get("X-Filename"))
		w.Write([]byte(`{"text":"recognized text"}`))
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, 0)
	require.True(t, client.Ready())

	text, err := client.Recognize(context.Background(), []byte("fake image"), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, "recognized text", text)
}

func TestOCRClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ocr engine crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, 0)
	_, err := client.Recognize(context.Background(), []byte("fake image"), "scan.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOCRClient_ServiceReportedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"","error":"unreadable image"}`))
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, 0)
	_, err := client.Recognize(context.Background(), []byte("fake image"), "scan.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable image")
}

func TestImageParser_ParseViaOCR(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"page one text"}`))
	}))
	defer server.Close()

	manager := DefaultManager(NewOCRClient(server.URL, 0))
	text, err := manager.Extract(strings.NewReader("fake image bytes"), "page.png")
	require.NoError(t, err)
	assert.Equal(t, "page one text", text)
}
