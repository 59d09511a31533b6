// Package voice turns spoken conversion requests into commands. It holds the
// transcript interpreter, the single-shot capture Listener and the
// recognizers that produce transcripts (a fixed transcript and OpenAI
// Whisper transcription of a recorded clip).
package voice
