package curl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArgs_Minimal(t *testing.T) {
	args := NewRequest("GET", "https://example.com").Args()

	assert.Equal(t, []string{"--silent", "--include", "-X", "GET", "https://example.com"}, args)
}

func TestArgs_DefaultsToGET(t *testing.T) {
	args := (&Request{URL: "https://example.com"}).Args()

	assert.Contains(t, args, "-X")
	assert.Equal(t, "GET", args[indexOf(t, args, "-X")+1])
}

func TestArgs_FullRequest(t *testing.T) {
	req := NewRequest("post", "https://api.example.com/things").
		SetHeader("Content-Type: application/json").
		SetHeader("Accept: application/json").
		SetBody(`{"name":"x"}`).
		SetProxy("http://proxy.local:8080").
		SetFollowRedirects(true).
		SetCompressed(true).
		SetInterface("eth0").
		SetTimeout(5 * time.Second)

	args := req.Args()

	assert.Equal(t, []string{
		"--silent", "--include",
		"--interface", "eth0",
		"-L",
		"-X", "POST",
		"--proxy", "http://proxy.local:8080",
		"--max-time", "5",
		"https://api.example.com/things",
		"-H", "Content-Type: application/json",
		"-H", "Accept: application/json",
		"-d", `{"name":"x"}`,
		"--compressed",
	}, args)
}

func TestArgs_HeaderOrderPreserved(t *testing.T) {
	req := NewRequest("GET", "https://example.com").
		SetHeaders("B: 2", "A: 1", "C: 3")

	args := req.Args()

	var headers []string
	for i, a := range args {
		if a == "-H" {
			headers = append(headers, args[i+1])
		}
	}
	assert.Equal(t, []string{"B: 2", "A: 1", "C: 3"}, headers)
}

func TestArgs_FractionalTimeout(t *testing.T) {
	args := NewRequest("GET", "https://example.com").
		SetTimeout(1500 * time.Millisecond).
		Args()

	assert.Equal(t, "1.5", args[indexOf(t, args, "--max-time")+1])
}

func indexOf(t *testing.T, args []string, want string) int {
	t.Helper()
	for i, a := range args {
		if a == want {
			return i
		}
	}
	t.Fatalf("flag %q not found in %v", want, args)
	return -1
}
