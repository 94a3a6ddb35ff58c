// Package models lists the OpenAI speech synthesis models available to an
// API key, together with the voices the speech endpoint accepts.
package models
