// Package lecture assembles the final illustrated document: transcript
// paragraphs interleaved with change-detected screenshots in timeline order,
// streamed into a pluggable output sink.
package lecture
