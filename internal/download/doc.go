// Package download runs yt-dlp downloads one at a time.
//
// A Manager owns at most one session. Start blocks until the external process
// exits and reports progress through a callback; Cancel terminates the process
// tree and the session ends as Cancelled regardless of the exit code.
package download
