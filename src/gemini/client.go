// Package gemini implements the review.ChatBackend against the Google
// Gemini API: chat sessions with a system instruction, file uploads for
// handle-based ingestion, and file deletion for cleanup.
package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/Protocol-Lattice/sow-review/src/review"
)

// Options configure a Client.
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// Client wraps a genai.Client for a single model configuration.
type Client struct {
	genai       *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewClient initializes the Gemini client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	if opts.Model == "" {
		return nil, errors.New("missing Gemini model name")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		genai:       client,
		model:       opts.Model,
		temperature: opts.Temperature,
		logger:      logger,
	}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error { return c.genai.Close() }

// NewSession starts a chat session with an empty history. The review
// provides all context itself, so search and code execution stay off and
// safety filters are relaxed: checklist findings routinely quote contract
// language the default filters flag.
func (c *Client) NewSession(ctx context.Context, systemInstruction string) (review.ChatSession, error) {
	m := c.genai.GenerativeModel(c.model)
	m.SetTemperature(c.temperature)
	if strings.TrimSpace(systemInstruction) != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	}
	m.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}
	c.logger.Debug("chat session started", zap.String("model", c.model))
	return &session{chat: m.StartChat()}, nil
}

// Upload pushes the asset to the Gemini file service and returns its
// handle in state Uploaded.
func (c *Client) Upload(ctx context.Context, asset review.DocumentAsset) (*review.RemoteHandle, error) {
	opts := &genai.UploadFileOptions{
		DisplayName: asset.Name,
		MIMEType:    normalizeMIME(asset.Name, asset.MIME),
	}
	f, err := c.genai.UploadFile(ctx, "", bytes.NewReader(asset.Data), opts)
	if err != nil {
		return nil, fmt.Errorf("gemini upload %q: %w", asset.Name, err)
	}
	c.logger.Info("file uploaded",
		zap.String("name", asset.Name),
		zap.String("resource", f.Name),
		zap.Int("size_bytes", asset.Size()))
	return &review.RemoteHandle{
		Name:  f.Name,
		URI:   f.URI,
		MIME:  f.MIMEType,
		State: review.HandleUploaded,
	}, nil
}

// Release deletes an uploaded file resource.
func (c *Client) Release(ctx context.Context, handle *review.RemoteHandle) error {
	if err := c.genai.DeleteFile(ctx, handle.Name); err != nil {
		return fmt.Errorf("gemini delete %q: %w", handle.Name, err)
	}
	return nil
}

type session struct {
	chat *genai.ChatSession
}

func (s *session) Send(ctx context.Context, parts ...review.Part) (string, error) {
	converted := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.Handle != nil:
			converted = append(converted, genai.FileData{MIMEType: p.Handle.MIME, URI: p.Handle.URI})
		case p.Inline != nil:
			converted = append(converted, genai.Blob{MIMEType: p.Inline.MIME, Data: p.Inline.Data})
		case p.Text != "":
			converted = append(converted, genai.Text(p.Text))
		}
	}
	if len(converted) == 0 {
		return "", errors.New("gemini send: empty message")
	}
	resp, err := s.chat.SendMessage(ctx, converted...)
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini: response has no text parts")
	}
	return b.String(), nil
}
