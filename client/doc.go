// Package client is a small JSON-over-HTTP client bound to a base URL.
//
// # Building a Client
//
// Use [Build] with a base URL and functional options:
//
//	c, err := client.Build("https://api.example.com",
//		client.WithTimeout(10*time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Making Requests
//
// [Get], [Post], [Put] and [Delete] are generic over the result type and
// return a [Result]. Request paths are joined onto the base URL with
// [Client.BuildURL]:
//
//	res := client.Get[User](ctx, c, "users/42", "expand=teams")
//	if res.Err != nil { ... }
//	fmt.Println(res.Value.Name)
//
// Use [NoContent] when no decoded value is wanted and string to receive
// the raw body.
//
// A body that cannot be decoded is reported as a [*DecodeError] whose
// message is the raw body. Write methods report non-2xx responses as
// [*StatusError] carrying the status message, keeping Value when the
// body still decodes.
//
// # Async Requests
//
// Each request has an Async variant that runs on its own goroutine and
// delivers exactly one Result on the returned channel:
//
//	ch := client.PostAsync[Ack](ctx, c, "events", payload)
//	client.Then(ch, func(res client.Result[Ack]) { ... })
//
// Results arrive in completion order. [Client.Wait] blocks until every
// async call has finished.
//
// # Downloading Files
//
// [Client.Download] streams a GET response to disk in 1024-byte chunks,
// reporting a [Progress] after each chunk:
//
//	err := c.Download(ctx, "files/report.pdf", "", "/tmp/report.pdf",
//		func(p client.Progress) { fmt.Println(p) },
//	)
//
// # Shared Client
//
// [Shared] holds one lazily built Client whose base URL and timeout are
// overwritten on every access. Own it in main and pass it down.
package client
