// Package gemini implements the generation.ContentProvider interface
// using Google's Gemini API.
package gemini
