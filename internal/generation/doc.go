// Package generation provides interfaces and implementations for interacting
// with external AI/LLM services for streaming text generation. It abstracts
// the details of LLM API integration (Gemini), allowing the application to
// summarize recognized transcripts without coupling to specific external
// services.
package generation
