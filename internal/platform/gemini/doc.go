// Package gemini implements generation.Generator using Google's Gemini API.
//
// Prompts are rendered from a text/template (a built-in default or a file
// named by llm.prompt_template_path) and the model is asked for structured
// JSON output matching a fixed question/answer schema. Transient API errors
// are retried with exponential backoff and jitter, and outgoing calls can be
// throttled with a client-side rate limiter.
package gemini
