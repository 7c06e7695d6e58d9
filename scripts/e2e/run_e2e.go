// Package main runs E2E checks of the lead intake flow against a running
// server.
//
// Scenarios cover:
//   - Email-only submission stored with defaults
//   - Phone length boundary (6 vs 7 characters)
//   - Honeypot submissions answered like real ones
//   - Malformed bodies
//   - Search-capture payload as the home page sends it
//   - Page and health endpoints
//
// Every passing submission writes a real row, so point this at a staging
// database.
//
// Usage:
//
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go [scenario-name]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	apiBase string
	client  = &http.Client{Timeout: 15 * time.Second}
)

// ---------------------------------------------------------------------------
// Scenario definition
// ---------------------------------------------------------------------------

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type intakeResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func postRaw(body string) (int, intakeResponse, string, error) {
	resp, err := client.Post(apiBase+"/api/leads", "application/json", bytes.NewBufferString(body))
	if err != nil {
		return 0, intakeResponse{}, "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, intakeResponse{}, "", err
	}
	var out intakeResponse
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, string(raw), nil
}

func postLead(payload map[string]interface{}) (int, intakeResponse, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, intakeResponse{}, "", err
	}
	return postRaw(string(body))
}

func get(path string) (int, string, error) {
	resp, err := client.Get(apiBase + path)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw), err
}

func uniqueEmail() string {
	return fmt.Sprintf("e2e+%d@example.com", time.Now().UnixNano())
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func scenarioEmailOnly(t *T) {
	status, resp, _, err := postLead(map[string]interface{}{"email": uniqueEmail(), "source": "e2e"})
	if err != nil {
		t.fatalf("post: %v", err)
		return
	}
	t.check("status 200", status == http.StatusOK)
	t.check("ok true", resp.OK)
}

func scenarioPhoneBoundary(t *T) {
	status, resp, _, err := postLead(map[string]interface{}{"phone": "123456", "source": "e2e"})
	if err != nil {
		t.fatalf("post short phone: %v", err)
		return
	}
	t.check("6 char phone rejected with 400", status == http.StatusBadRequest)
	t.check("contact error message", strings.Contains(resp.Error, "email or phone"))

	status, resp, _, err = postLead(map[string]interface{}{"phone": "1234567", "source": "e2e"})
	if err != nil {
		t.fatalf("post seven char phone: %v", err)
		return
	}
	t.check("7 char phone accepted", status == http.StatusOK && resp.OK)
}

func scenarioHoneypot(t *T) {
	status, _, honeypotBody, err := postLead(map[string]interface{}{"company": "Acme", "email": "a@b.co"})
	if err != nil {
		t.fatalf("post honeypot: %v", err)
		return
	}
	_, _, realBody, err := postLead(map[string]interface{}{"email": uniqueEmail(), "source": "e2e"})
	if err != nil {
		t.fatalf("post real: %v", err)
		return
	}
	t.check("honeypot status 200", status == http.StatusOK)
	t.check("honeypot body identical to real success", honeypotBody == realBody)
}

func scenarioMalformed(t *T) {
	for _, body := range []string{"{", "[]", "null"} {
		status, resp, _, err := postRaw(body)
		if err != nil {
			t.fatalf("post %q: %v", body, err)
			continue
		}
		t.check(fmt.Sprintf("%q rejected with 400", body), status == http.StatusBadRequest && !resp.OK)
	}
}

func scenarioSearchCapture(t *T) {
	status, resp, _, err := postLead(map[string]interface{}{
		"source":        "search_capture",
		"page_path":     "/",
		"areas":         "MetroWest",
		"towns":         "Natick",
		"price_min":     450000,
		"price_max":     900000,
		"beds":          3,
		"baths":         2,
		"property_type": "Single Family",
		"timeline":      "0–3 months",
		"financing":     "Pre-approved",
		"name":          "E2E Buyer",
		"email":         uniqueEmail(),
		"phone":         "",
		"company":       "",
		"lead_type":     "buyer",
		"message":       "Search request: MetroWest | Towns: Natick",
	})
	if err != nil {
		t.fatalf("post: %v", err)
		return
	}
	t.check("search capture stored", status == http.StatusOK && resp.OK)
}

func scenarioPages(t *T) {
	for _, path := range []string{"/health", "/", "/privacy", "/static/lead.js"} {
		status, _, err := get(path)
		if err != nil {
			t.fatalf("GET %s: %v", path, err)
			continue
		}
		t.check("GET "+path+" 200", status == http.StatusOK)
	}
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL required")
		os.Exit(1)
	}

	scenarios := []scenario{
		{"email-only", scenarioEmailOnly},
		{"phone-boundary", scenarioPhoneBoundary},
		{"honeypot", scenarioHoneypot},
		{"malformed", scenarioMalformed},
		{"search-capture", scenarioSearchCapture},
		{"pages", scenarioPages},
	}

	// Filter by name if argument provided
	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0)

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "✅"
		if t.failed > 0 {
			status = "❌"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		fmt.Println("\n❌ SOME TESTS FAILED")
		os.Exit(1)
	}
	fmt.Println("\n✅ ALL TESTS PASSED")
}
