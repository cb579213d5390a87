// Command api-check exercises a running tea-registry instance end to end:
// login, gated navigation, registrant listing, reports, logout. It is a
// developer smoke tool, not a test suite.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	baseURL  = getEnv("BASE_URL", "http://localhost:8080")
	email    = getEnv("CHECK_EMAIL", "admin@example.org")
	password = getEnv("CHECK_PASSWORD", "")
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	fmt.Println("==========================================")
	fmt.Println("tea-registry API check")
	fmt.Println("==========================================")
	fmt.Printf("Base URL: %s\n", baseURL)
	fmt.Printf("Email:    %s\n\n", email)

	if password == "" {
		fmt.Println("CHECK_PASSWORD is required")
		os.Exit(1)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	// Gate check: unauthenticated protected path must redirect to /login.
	resp, err := client.R().
		SetDoNotParseResponse(false).
		Get("/dashboard")
	must(err, "gate check request")
	if resp.RawResponse.Request.URL.Path != "/login" && resp.StatusCode() != 302 {
		fmt.Printf("  note: expected a /login redirect, got HTTP %d at %s\n",
			resp.StatusCode(), resp.RawResponse.Request.URL.Path)
	} else {
		fmt.Println("✓ unauthenticated /dashboard redirects to login")
	}

	// Login and keep the session cookie on the client.
	resp, err = client.R().
		SetBody(map[string]string{"email": email, "senha": password}).
		Post("/auth/login")
	must(err, "login request")
	if resp.StatusCode() != 200 {
		fmt.Printf("login failed: HTTP %d: %s\n", resp.StatusCode(), resp.String())
		os.Exit(1)
	}
	for _, c := range resp.Cookies() {
		client.SetCookie(c)
	}
	fmt.Println("✓ login")

	check(client, "/auth/me", "who am i")
	check(client, "/dashboard", "dashboard counters")
	check(client, "/cadastros", "registrant list")
	check(client, "/PessoaTEA", "profile list with signed URLs")
	check(client, "/relatorios/cadastros", "registration report")
	check(client, "/relatorios/consultas", "consultation report")

	resp, err = client.R().Post("/auth/logout")
	must(err, "logout request")
	fmt.Printf("✓ logout (HTTP %d)\n", resp.StatusCode())

	fmt.Println("\n==========================================")
	fmt.Println("check complete")
	fmt.Println("==========================================")
}

func check(client *resty.Client, path, label string) {
	resp, err := client.R().Get(path)
	must(err, label)
	if resp.StatusCode() != 200 {
		fmt.Printf("✗ %s: HTTP %d: %s\n", label, resp.StatusCode(), resp.String())
		os.Exit(1)
	}
	fmt.Printf("✓ %s (%d bytes)\n", label, len(resp.Body()))
}

func must(err error, label string) {
	if err != nil {
		fmt.Printf("✗ %s: %v\n", label, err)
		os.Exit(1)
	}
}
