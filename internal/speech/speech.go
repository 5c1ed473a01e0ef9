// Package speech adapts an OpenAI-compatible audio API for voice-mode
// interviews. The interview core never sees audio: transcription output
// enters answer submission exactly as typed text would.
package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// Client wraps an OpenAI-compatible API client for speech-to-text and
// text-to-speech.
type Client struct {
	api      *openai.Client
	sttModel string
	ttsModel string
	voice    openai.SpeechVoice
}

// New creates a speech client. baseURL may point at any OpenAI-compatible
// endpoint; empty keeps the default.
func New(baseURL, apiKey, sttModel, ttsModel, voice string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if sttModel == "" {
		sttModel = openai.Whisper1
	}
	if ttsModel == "" {
		ttsModel = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &Client{
		api:      openai.NewClientWithConfig(config),
		sttModel: sttModel,
		ttsModel: ttsModel,
		voice:    openai.SpeechVoice(voice),
	}
}

// Transcribe converts recorded speech into text. filename hints the
// container format to the API (e.g. "answer.webm").
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.sttModel,
		Reader:   audio,
		FilePath: filename,
	})
	if err != nil {
		return "", fmt.Errorf("transcription API call: %w", err)
	}
	slog.Debug("transcribed audio", "file", filename, "chars", len(resp.Text))
	return resp.Text, nil
}

// Synthesize converts text into spoken audio (mp3 stream). The caller
// must close the returned reader.
func (c *Client) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.ttsModel),
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("speech API call: %w", err)
	}
	return resp, nil
}
