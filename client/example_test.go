package client_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/adamwoolhether/netmanager/client"
)

func ExampleBuild() {
	c, err := client.Build("https://api.example.com/v1/",
		client.WithTimeout(5*time.Second),
		client.WithUserAgent("example/1.0"),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(c.BaseURL(), c.Timeout())
	// Output: https://api.example.com/v1 5s
}

func ExampleClient_BuildURL() {
	c, err := client.Build("http://x.com")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(c.BuildURL("/a/", "?q=1"))
	fmt.Println(c.BuildURL("", ""))
	// Output:
	// http://x.com/a?q=1
	// http://x.com
}

func ExampleGet() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":1,"name":"alice"}`)
	}))
	defer server.Close()

	c, err := client.Build(server.URL)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	res := client.Get[user](context.Background(), c, "users/1", "")
	if res.Err != nil {
		fmt.Println("error:", res.Err)
		return
	}

	fmt.Println(res.Value.ID, res.Value.Name)
	// Output: 1 alice
}

func ExampleGet_plainTextError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "maintenance window")
	}))
	defer server.Close()

	c, err := client.Build(server.URL)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res := client.Get[map[string]any](context.Background(), c, "status", "")
	fmt.Println(res.Value == nil, res.Message())
	// Output: true maintenance window
}

func ExamplePost() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "missing")
	}))
	defer server.Close()

	c, err := client.Build(server.URL)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res := client.Post[client.NoContent](context.Background(), c, "users", map[string]string{"name": "bob"})
	fmt.Println(res.StatusCode, res.Message())
	// Output: 404 Not Found
}

func ExampleGetAsync() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}))
	defer server.Close()

	c, err := client.Build(server.URL)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	res := <-client.GetAsync[string](context.Background(), c, "ping", "")
	fmt.Println(*res.Value)
	// Output: pong
}

func ExampleThen() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "done")
	}))
	defer server.Close()

	c, err := client.Build(server.URL)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	finished := make(chan struct{})
	client.Then(client.DeleteAsync[string](context.Background(), c, "jobs/9", nil), func(res client.Result[string]) {
		defer close(finished)
		fmt.Println(res.StatusCode, *res.Value)
	})

	<-finished
	// Output: 200 done
}

func ExampleClient_Download() {
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode:    http.StatusOK,
			Status:        "200 OK",
			ContentLength: 2500,
			Body:          io.NopCloser(bytes.NewReader(make([]byte, 2500))),
			Request:       r,
		}, nil
	})

	c, err := client.Build("http://files.example.com", client.WithTransport(transport))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	dir, err := os.MkdirTemp("", "netmanager-example-")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	err = c.Download(context.Background(), "file.bin", "", filepath.Join(dir, "file.bin"), func(p client.Progress) {
		fmt.Println(p)
	})
	if err != nil {
		fmt.Println("error:", err)
	}
	// Output:
	// 1024/2500
	// 1024/2500
	// 452/2500
}

func ExampleNewShared() {
	shared := client.NewShared(client.WithLogger(slog.New(slog.DiscardHandler)))

	first, _ := shared.Client("http://one.example.com", time.Second)
	second, _ := shared.Client("http://two.example.com", 2*time.Second)

	fmt.Println(first == second, first.BaseURL(), first.Timeout())
	// Output: true http://two.example.com 2s
}
