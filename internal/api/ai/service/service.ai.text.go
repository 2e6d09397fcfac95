// Package service - adapter gọi chat completions cho các thao tác văn bản.
//
// Triết lý chung: AI là tính năng phụ trợ, KHÔNG BAO GIỜ làm hỏng flow chính.
// Mọi lỗi từ upstream (thiếu key, mạng, parse) đều được nuốt tại đây và thay
// bằng giá trị fallback; caller không nhận error, chi tiết chỉ nằm trong log.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/global"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/logger"
)

// Ngưỡng tối thiểu để tóm tắt có nghĩa.
const minSummarizeLength = 100

// errEmptyCompletion: upstream trả về 200 nhưng không có nội dung nào dùng được.
// Phân biệt với lỗi gọi API vì summarize có fallback riêng cho từng trường hợp.
var errEmptyCompletion = errors.New("completion không có nội dung")

// AITextService là cấu trúc chứa các phương thức xử lý văn bản qua chat completions
type AITextService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAITextService tạo mới AITextService từ cấu hình server.
func NewAITextService() *AITextService {
	cfg := global.ServerConfig
	return &AITextService{
		apiKey:  cfg.OpenAI_APIKey,
		baseURL: strings.TrimRight(cfg.OpenAI_BaseURL, "/"),
		model:   cfg.OpenAI_Model,
		client: &http.Client{
			Timeout: time.Duration(cfg.OpenAI_Timeout) * time.Second,
		},
	}
}

// NewAITextServiceWithClient dùng cho test với httptest server.
func NewAITextServiceWithClient(baseURL, apiKey, model string, client *http.Client) *AITextService {
	return &AITextService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chatCompletion gọi endpoint chat completions và trả về content của choice đầu.
func (s *AITextService) chatCompletion(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("chưa cấu hình OPENAI_API_KEY")
	}

	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("parse response lỗi: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return "", fmt.Errorf("upstream trả về %d: %s", resp.StatusCode, completion.Error.Message)
		}
		return "", fmt.Errorf("upstream trả về %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return "", errEmptyCompletion
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyCompletion
	}
	return content, nil
}

func (s *AITextService) logFallback(operation string, err error) {
	logger.GetAppLogger().WithFields(map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	}).Warn("Gọi AI thất bại, dùng giá trị fallback")
}

// SummarizeText tóm tắt văn bản thành 2-3 câu.
// Văn bản dưới 100 ký tự: trả về thông báo cố định, không gọi upstream.
func (s *AITextService) SummarizeText(ctx context.Context, text string) string {
	if len(text) < minSummarizeLength {
		return "Text too short for summarization"
	}
	summary, err := s.chatCompletion(ctx,
		"You are a helpful assistant that summarizes text concisely.",
		"Summarize the following text in 2-3 sentences:\n\n"+text,
		200, 0.3)
	if err != nil {
		s.logFallback("summarize", err)
		// Upstream trả lời nhưng rỗng và lỗi gọi API có thông báo khác nhau.
		if errors.Is(err, errEmptyCompletion) {
			return "Unable to generate summary"
		}
		return "Error generating summary"
	}
	return summary
}

// ExtractTags gợi ý tối đa 5 tag cho văn bản.
// Văn bản trống hoặc toàn whitespace, hoặc upstream lỗi: trả về mảng rỗng.
func (s *AITextService) ExtractTags(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	raw, err := s.chatCompletion(ctx,
		"You are a helpful assistant that extracts relevant tags from text.",
		"Extract up to 5 relevant tags from this text. Return only the tags separated by commas:\n\n"+text,
		100, 0.2)
	if err != nil {
		s.logFallback("extract_tags", err)
		return []string{}
	}

	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// GenerateSmartReminder sinh thông điệp nhắc nhở từ title/content của note.
// Upstream lỗi: fallback "Review your note: " + title.
func (s *AITextService) GenerateSmartReminder(ctx context.Context, title, content string) string {
	message, err := s.chatCompletion(ctx,
		"You are a helpful assistant that writes short, actionable reminder messages.",
		fmt.Sprintf("Write a short reminder message for a note titled %q with this content:\n\n%s", title, content),
		150, 0.5)
	if err != nil {
		s.logFallback("smart_reminder", err)
		return "Review your note: " + title
	}
	return message
}

// EnhanceText sửa ngữ pháp và diễn đạt, giữ nguyên ý nghĩa.
// Upstream lỗi: trả về nguyên văn đầu vào.
func (s *AITextService) EnhanceText(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	maxTokens := 2 * len(text)
	if maxTokens > 1000 {
		maxTokens = 1000
	}
	enhanced, err := s.chatCompletion(ctx,
		"You are a helpful assistant that improves grammar and clarity while preserving meaning.",
		"Improve the grammar and clarity of this text without changing its meaning:\n\n"+text,
		maxTokens, 0.3)
	if err != nil {
		s.logFallback("enhance", err)
		return text
	}
	return enhanced
}
