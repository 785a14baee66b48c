package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testEmailService(url string) *EmailService {
	return &EmailService{Config: &ResendConfig{
		APIKey: "test-key",
		APIURL: url,
		From:   "noreply@schoolhub.test",
	}}
}

func TestSendBulkEmailBatchesRecipients(t *testing.T) {
	t.Parallel()

	var batches [][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		batches = append(batches, req.To)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	to := make([]string, 120)
	for i := range to {
		to[i] = "user" + string(rune('a'+i%26)) + "@school.test"
	}

	delivered := testEmailService(server.URL).SendBulkEmail(to, "Snow day", "School is closed tomorrow")

	if len(batches) != 3 {
		t.Fatalf("got %d batches, want 3", len(batches))
	}
	if len(batches[0]) != maxRecipientsPerSend || len(batches[1]) != maxRecipientsPerSend || len(batches[2]) != 20 {
		t.Fatalf("batch sizes = %d/%d/%d, want 50/50/20", len(batches[0]), len(batches[1]), len(batches[2]))
	}
	if len(delivered) != len(to) {
		t.Fatalf("delivered %d addresses, want %d", len(delivered), len(to))
	}
}

func TestSendBulkEmailSkipsRejectedBatch(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	to := make([]string, maxRecipientsPerSend+1)
	for i := range to {
		to[i] = "user@school.test"
	}

	delivered := testEmailService(server.URL).SendBulkEmail(to, "Subject", "Body")

	if calls != 2 {
		t.Fatalf("got %d calls, want 2; a rejected batch must not abort the broadcast", calls)
	}
	if len(delivered) != 1 {
		t.Fatalf("delivered %d addresses, want only the second batch", len(delivered))
	}
}

func TestSendEmailErrorsOnRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := testEmailService(server.URL).SendEmail("user@school.test", "Subject", "Body")
	if err == nil {
		t.Fatal("expected an error for a rejected send")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("error %q should carry the status code", err)
	}
}

func TestHtmlBodyEscapesUserText(t *testing.T) {
	t.Parallel()

	got := htmlBody("Grades <updated>", "Score < 60 & above 40")
	if strings.Contains(got, "<updated>") {
		t.Fatalf("subject was not escaped: %q", got)
	}
	if !strings.Contains(got, "&lt;updated&gt;") || !strings.Contains(got, "&amp; above") {
		t.Fatalf("escaped text missing from %q", got)
	}
}
