// Package vlm wraps an OpenAI-compatible vision chat completion API.
// The augmentation stages use it to caption frames, narrate state
// transitions, and synthesize structured queries.
package vlm
