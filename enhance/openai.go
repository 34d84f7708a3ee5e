package enhance

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// OpenAIConfig configures an OpenAI-compatible chat completions endpoint.
type OpenAIConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	// PathPrefix defaults to "/v1".
	PathPrefix string
	MaxRetries int
	HTTPClient *http.Client
	// Logger receives retry warnings. Nil discards them.
	Logger *zerolog.Logger
}

const (
	defaultPathPrefix = "/v1"
	defaultRetries    = 2
	baseRetryDelay    = time.Second
	maxAltTextLen     = 250
	maxTitleLen       = 80
)

// OpenAICompat drafts alt text and titles with a vision-capable chat model
// behind an OpenAI-compatible API.
type OpenAICompat struct {
	cfg    OpenAIConfig
	client *http.Client
	log    zerolog.Logger
}

// NewOpenAICompat returns a collaborator for cfg.
func NewOpenAICompat(cfg OpenAIConfig) *OpenAICompat {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaultPathPrefix
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultRetries
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &OpenAICompat{cfg: cfg, client: client, log: log}
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Available checks that an endpoint is configured and answers the models
// listing.
func (c *OpenAICompat) Available(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return fmt.Errorf("%w: no base URL configured", ErrUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+c.cfg.PathPrefix+"/models", nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: models endpoint returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// DescribeImage asks the model for a short description of a figure.
func (c *OpenAICompat) DescribeImage(ctx context.Context, req ImageRequest) (string, error) {
	german := isGerman(req.Language)
	prompt := "Write one concise alternative text (at most 2 sentences) for this " + string(req.Type) +
		" on a presentation slide. Describe the information it conveys, not its appearance. Answer with the alternative text only."
	if german {
		prompt = "Schreibe einen knappen Alternativtext (höchstens 2 Sätze) für dieses Element vom Typ " + string(req.Type) +
			" auf einer Präsentationsfolie. Beschreibe die vermittelte Information, nicht das Aussehen. Antworte nur mit dem Alternativtext."
	}
	if req.SlideTitle != "" {
		prompt += "\n\n" + label(german, "Folientitel", "Slide title") + ": " + req.SlideTitle
	}
	if req.Context != "" {
		prompt += "\n\n" + label(german, "Text auf der Folie", "Slide text") + ":\n" + req.Context
	}

	parts := []contentPart{{Type: "text", Text: prompt}}
	if len(req.Data) > 0 && strings.HasPrefix(req.ContentType, "image/") {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:" + req.ContentType + ";base64," + base64.StdEncoding.EncodeToString(req.Data)},
		})
	}

	out, err := c.complete(ctx, parts, 200)
	if err != nil {
		return "", fmt.Errorf("describing %s on slide %d: %w", req.ElementID, req.SlideNumber, err)
	}
	return clean(out, maxAltTextLen), nil
}

// SuggestTitle asks the model for a slide title.
func (c *OpenAICompat) SuggestTitle(ctx context.Context, req SlideRequest) (string, error) {
	german := isGerman(req.Language)
	prompt := "Suggest a short, descriptive title (at most 8 words) for a presentation slide with the following text. Answer with the title only.\n\n"
	if german {
		prompt = "Schlage einen kurzen, aussagekräftigen Titel (höchstens 8 Wörter) für eine Präsentationsfolie mit folgendem Text vor. Antworte nur mit dem Titel.\n\n"
	}
	prompt += limit(strings.Join(req.Text, "\n"), maxContextLen)

	out, err := c.complete(ctx, []contentPart{{Type: "text", Text: prompt}}, 40)
	if err != nil {
		return "", fmt.Errorf("titling slide %d: %w", req.SlideNumber, err)
	}
	return clean(out, maxTitleLen), nil
}

func (c *OpenAICompat) complete(ctx context.Context, parts []contentPart, maxTokens int) (string, error) {
	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: parts}},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	}
	data, err := c.post(ctx, c.cfg.PathPrefix+"/chat/completions", body)
	if err != nil {
		return "", err
	}
	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAICompat) authorize(req *http.Request) {
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}

func (c *OpenAICompat) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := c.cfg.BaseURL + path

	var lastErr error
	var wait time.Duration
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1))
			if wait > delay {
				delay = wait
			}
			c.log.Warn().Err(lastErr).Str("url", url).Int("attempt", attempt).Dur("delay", delay).Msg("retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request to %s failed: %w", url, err)
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response body: %w", err)
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return respBody, nil
		}

		lastErr = fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if !retryable(resp.StatusCode) {
			return nil, lastErr
		}
		wait = 0
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
				wait = time.Duration(seconds) * time.Second
			}
		}
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isGerman(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "de")
}

func label(german bool, de, en string) string {
	if german {
		return de
	}
	return en
}

// clean strips quoting and labels models like to add and bounds the length
// at a word boundary.
func clean(s string, max int) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"Alternativtext:", "Alt text:", "Alt-Text:", "Titel:", "Title:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = strings.TrimSpace(s[len(prefix):])
		}
	}
	s = strings.Trim(s, "\"'„“”«»`")
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}
