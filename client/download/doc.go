// Package download streams an HTTP response body to disk in fixed-size
// chunks, reporting a [Progress] event after every chunk written.
//
// [Handle] opens the destination with create/truncate semantics and
// writes straight into it. A failed transfer leaves whatever was written
// in place unless [WithAtomicRename] is used, in which case the body is
// streamed to a temporary file alongside the destination and renamed on
// success:
//
//	err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		func(p download.Progress) { fmt.Println(p) },
//		download.WithAtomicRename(),
//	)
//
// Most callers should use [github.com/adamwoolhether/netmanager/client.Client.Download],
// which issues the request and invokes Handle internally.
package download
