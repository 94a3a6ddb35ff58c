// Package audio synthesizes Hebrew speech into audio files. It offers the
// gTTS, OpenAI, Google Cloud and Gemini providers behind one Provider
// interface, an optional fallback provider and a circuit breaker that stops
// calling a failing service for a while.
package audio
