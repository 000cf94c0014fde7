package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewWebhookClient_Defaults(t *testing.T) {
	client := NewWebhookClient("api-key", "https://mail.example/send", "")
	if client.APIKey != "api-key" {
		t.Errorf("APIKey = %q, want %q", client.APIKey, "api-key")
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should be set")
	}
	if client.HTTPClient.Timeout != defaultTimeout {
		t.Errorf("HTTPClient.Timeout = %v, want %v", client.HTTPClient.Timeout, defaultTimeout)
	}
}

func TestSendOTP_RequestFormat(t *testing.T) {
	var received webhookRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "test-api-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewWebhookClient("test-api-key", server.URL, "no-reply@nexus.test")
	if err := client.SendOTP(context.Background(), "sarah@techwave.io", "654321"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	want := webhookRequest{Template: TemplateOTP, To: "sarah@techwave.io", From: "no-reply@nexus.test", Variables: "654321"}
	if received != want {
		t.Errorf("body = %+v, want %+v", received, want)
	}
}

func TestSendResetToken_Template(t *testing.T) {
	var received webhookRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	if err := NewWebhookClient("k", server.URL, "").SendResetToken(context.Background(), "a@x.com", "tok"); err != nil {
		t.Fatalf("SendResetToken: %v", err)
	}
	if received.Template != TemplatePasswordReset || received.Variables != "tok" {
		t.Errorf("body = %+v", received)
	}
}

func TestSend_NotConfigured(t *testing.T) {
	ctx := context.Background()
	if err := NewWebhookClient("", "https://mail.example", "").SendOTP(ctx, "a@x.com", "123456"); err == nil || !strings.Contains(err.Error(), "API key not configured") {
		t.Errorf("missing key err = %v", err)
	}
	if err := NewWebhookClient("k", "", "").SendOTP(ctx, "a@x.com", "123456"); err == nil || !strings.Contains(err.Error(), "base URL not configured") {
		t.Errorf("missing URL err = %v", err)
	}
}

func TestSend_Non2xxOmitsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad","echo":"123456"}`))
	}))
	defer server.Close()

	err := NewWebhookClient("k", server.URL, "").SendOTP(context.Background(), "a@x.com", "123456")
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "status=400") {
		t.Errorf("error = %q, want status=400", err)
	}
	if strings.Contains(err.Error(), "123456") {
		t.Errorf("error leaked the code: %q", err)
	}
}
