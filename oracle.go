package ordo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Oracle produces content summaries and the reorganization proposal.
// Everything it returns is untrusted input to the pipeline.
type Oracle interface {
	CaptionImage(ctx context.Context, encodedImage, ext string) (string, error)
	SummarizeText(ctx context.Context, content string) (string, error)
	ProposeMapping(ctx context.Context, files []FileInfo, guidance string) (Mapping, error)
}

// ChatOracle speaks to an OpenAI-compatible chat-completions endpoint,
// remote or local.
type ChatOracle struct {
	Model      string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
}

func NewChatOracle(model, apiKey, baseURL string) *ChatOracle {
	return &ChatOracle{
		Model:      model,
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
		MaxRetries: 2,
		RetryDelay: time.Second,
	}
}

const captionSystemPrompt = `You describe images factually and briefly. Focus on key visual elements.

Guidelines:
- Provide 1-2 short sentences only
- Describe what you can see with certainty
- Be specific and objective
- Avoid speculation about context or purpose`

const summarizeSystemPrompt = `You create concise text summaries that capture main points without extraneous details. Keep summaries short and direct.

Guidelines:
- Summarize in 1-2 sentences only
- Focus on key information and main points
- Be factual and objective`

func (o *ChatOracle) CaptionImage(ctx context.Context, encodedImage, ext string) (string, error) {
	if !IsCaptionable(ext) {
		return "", fmt.Errorf("unsupported image format '%s'", ext)
	}
	req := chatRequest{
		Model: o.Model,
		Messages: []chatMessage{
			{Role: "system", Content: captionSystemPrompt},
			{Role: "user", Content: []chatPart{
				{Type: "image_url", ImageURL: &chatImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", imageMime(ext), encodedImage),
				}},
				{Type: "text", Text: "Describe this image in 1-2 short sentences."},
			}},
		},
	}
	return o.complete(ctx, req)
}

func (o *ChatOracle) SummarizeText(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty text content")
	}
	user := fmt.Sprintf("Summarize the following text in 1-2 sentences. Focus on key information only.\n\n```\n%s\n```", content)
	req := chatRequest{
		Model: o.Model,
		Messages: []chatMessage{
			{Role: "system", Content: summarizeSystemPrompt},
			{Role: "user", Content: user},
		},
	}
	return o.complete(ctx, req)
}

// ProposeMapping asks for the reorganization in two steps: a free-form
// structure analysis first, then the concrete mapping JSON grounded on
// that analysis. The second step runs colder and in JSON mode.
func (o *ChatOracle) ProposeMapping(ctx context.Context, files []FileInfo, guidance string) (Mapping, error) {
	listing, err := formatFilesForPrompt(files)
	if err != nil {
		return nil, err
	}

	analysis, err := o.complete(ctx, chatRequest{
		Model:       o.Model,
		Messages:    []chatMessage{{Role: "user", Content: analysisPrompt(listing, guidance)}},
		Temperature: floatPtr(0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("structure analysis failed: %w", err)
	}

	raw, err := o.complete(ctx, chatRequest{
		Model:          o.Model,
		Messages:       []chatMessage{{Role: "user", Content: mappingPrompt(listing, analysis)}},
		Temperature:    floatPtr(0.1),
		ResponseFormat: &chatFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("mapping generation failed: %w", err)
	}

	return DecodeMapping(raw)
}

func analysisPrompt(listing, guidance string) string {
	var b strings.Builder
	b.WriteString(`<task>
Analyze the provided files and suggest a logical directory structure that improves organization.
</task>

<requirements>
1. Analyze file types, sizes, timestamps, naming patterns and content summaries
2. Identify functional groups or domains
3. Consider organization strategies (domain, purpose, file type)
4. Provide brief reasoning for the suggested structure
</requirements>

<input_files>
`)
	b.WriteString(listing)
	b.WriteString("\n</input_files>\n")
	if guidance != "" {
		b.WriteString("\n<additional_guidelines>\n")
		b.WriteString(guidance)
		b.WriteString("\n</additional_guidelines>\n")
	}
	b.WriteString(`
<constraints>
- Keep the structure practical (max 3-4 levels deep)
- Maintain original filenames
- Prioritize ease of navigation
- Be concise
</constraints>`)
	return b.String()
}

func mappingPrompt(listing, analysis string) string {
	return `<task>
Based on the analysis, produce the file mapping JSON that reorganizes the files.
</task>

<previous_analysis>
` + analysis + `
</previous_analysis>

<input_files>
` + listing + `
</input_files>

<output_format>
Return ONLY a valid JSON object with:
- Keys: original file paths
- Values: new file paths

Example:
{
  "old/path/file.txt": "new/structured/path/file.txt",
  "random_name.py": "core/utilities/random_name.py"
}
</output_format>

<constraints>
- Maintain original filenames
- Keep destinations relative to the target directory
- Do not nest more than 3-4 levels deep
- Every original file must appear exactly once as a key
</constraints>`
}

type promptFile struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	LastModified string `json:"last_modified"`
	Summary      string `json:"content_summary,omitempty"`
}

func formatFilesForPrompt(files []FileInfo) (string, error) {
	sorted := append([]FileInfo(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	out := make([]promptFile, len(sorted))
	for i, f := range sorted {
		out[i] = promptFile{
			Path:         f.Path,
			Size:         f.Size,
			Type:         strings.TrimPrefix(f.Ext, "."),
			LastModified: f.ModTime.UTC().Format(time.RFC3339),
			Summary:      f.Summary,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    *float64      `json:"temperature,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *ChatOracle) complete(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	base := o.BaseURL
	if base == "" {
		base = "https://api.openai.com"
	}
	endpoint := strings.TrimRight(base, "/") + "/v1/chat/completions"

	for attempt := 0; ; attempt++ {
		text, retryable, err := o.send(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		if !retryable || attempt >= o.MaxRetries {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(o.RetryDelay):
		}
	}
}

func (o *ChatOracle) send(ctx context.Context, endpoint string, body []byte) (string, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if o.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.APIKey)
	}

	client := o.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		// Timeouts and connection resets are worth another attempt; a
		// cancelled context is not.
		return "", ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("model endpoint returned %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("model endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("could not parse model response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("model error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("model returned no choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

func floatPtr(v float64) *float64 { return &v }
