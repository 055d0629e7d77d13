// Package backend runs the external programs that do the framework-side work.
package backend

// StreamChunk represents a single chunk of streamed command output.
type StreamChunk struct {
	// Data is the chunk content.
	Data []byte

	// Done indicates if this is the final chunk.
	Done bool

	// Error if something went wrong.
	Error error
}
