// Package gemini implements the generation.StreamGenerator interface using
// Google's Gemini API to produce streaming transcript summaries.
package gemini
