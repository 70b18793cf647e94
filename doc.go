// Package dogear is the composition root for the dogear native-messaging host.
//
// It connects the bookmark domain (pkg/core) with a storage adapter. The default
// adapter is an embedded SQLite database using buku's table layout, so a browser
// extension talking to the host and buku on the command line share one library.
//
// The browser starts the host binary and exchanges length-prefixed JSON frames
// with it over stdin and stdout; see pkg/nativemsg for the framing and pkg/host
// for the request loop.
//
// Usage:
//
//	svc, err := dogear.New("", dogear.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer svc.Close()
//
//	id, err := svc.AddBookmark(ctx, core.Bookmark{URL: "https://go.dev", Title: "Go"})
package dogear
