package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch_SetsHeadersByType(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	tests := []struct {
		clientType ClientType
		wantUA     string
		wantLang   bool
	}{
		{BrowserClient, browserUserAgent, true},
		{SimpleClient, simpleUserAgent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.clientType), func(t *testing.T) {
			body, err := NewClient(tt.clientType, 0).Fetch(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Fetch returned error: %v", err)
			}
			if string(body) != "<html>ok</html>" {
				t.Errorf("body = %q", body)
			}
			if gotUA != tt.wantUA {
				t.Errorf("User-Agent = %q, want %q", gotUA, tt.wantUA)
			}
			if (gotLang != "") != tt.wantLang {
				t.Errorf("Accept-Language = %q", gotLang)
			}
		})
	}
}

func TestFetch_StatusError(t *testing.T) {
	codes := map[int]bool{
		http.StatusNotFound:           false,
		http.StatusTooManyRequests:    true,
		http.StatusServiceUnavailable: true,
	}

	for code, temporary := range codes {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := NewClient(BrowserClient, 0).Fetch(context.Background(), server.URL)
		server.Close()

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: expected *StatusError, got %v", code, err)
		}
		if statusErr.StatusCode != code || statusErr.Temporary() != temporary {
			t.Errorf("status %d: got %+v temporary=%v", code, statusErr, statusErr.Temporary())
		}
		if !strings.Contains(statusErr.Error(), server.URL) {
			t.Errorf("error message should name the URL: %q", statusErr.Error())
		}
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(SimpleClient, 0).Fetch(ctx, server.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
