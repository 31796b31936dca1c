package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRestyClientResolvesRelativeURLAgainstBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/saved-items" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		w.Header().Set("X-Trace", "abc")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewRestyClient(srv.URL+"/", 2*time.Second)
	resp, err := client.Do(context.Background(), Request{URL: "/api/saved-items"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "[]" {
		t.Fatalf("body = %q", resp.Body())
	}
	if got := resp.Header().Get("X-Trace"); got != "abc" {
		t.Fatalf("header X-Trace = %q", got)
	}
}

func TestRestyClientSendsHeadersAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Fatalf("missing header, got %s", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `{"a":1}` {
			t.Fatalf("body = %s", raw)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	client := NewRestyClient("", time.Second)
	resp, err := client.Do(context.Background(), Request{
		Method:  "post",
		URL:     srv.URL + "/x",
		Headers: map[string]string{"X-Test": "1", "Content-Type": "application/json"},
		Body:    []byte(`{"a":1}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("expected non-2xx to pass through, got %d", resp.StatusCode())
	}
}

func TestRestyClientMultipartFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("content type = %s", r.Header.Get("Content-Type"))
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		raw, _ := io.ReadAll(file)
		if hdr.Filename != "memo.m4a" || string(raw) != "audio" {
			t.Fatalf("unexpected upload %s=%q", hdr.Filename, raw)
		}
		_, _ = w.Write([]byte(`{"transcription":"hi"}`))
	}))
	defer srv.Close()

	client := NewRestyClient(srv.URL, time.Second)
	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		URL:    "/api/transcribe-voice",
		Files:  []File{{Param: "file", FileName: "memo.m4a", Reader: strings.NewReader("audio")}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestRestyClientConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewRestyClient("", 500*time.Millisecond)
	if _, err := client.Do(context.Background(), Request{URL: url}); err == nil {
		t.Fatalf("expected transport error for closed server")
	}
}

func TestRestyClientKeepsGetPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `{"q":1}` {
			t.Errorf("GET body = %q", raw)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewRestyClient(srv.URL, time.Second)
	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: "/x", Body: []byte(`{"q":1}`)}); err != nil {
		t.Fatalf("Do: %v", err)
	}
}
