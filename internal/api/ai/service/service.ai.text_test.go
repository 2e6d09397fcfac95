package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedRequest giữ body của request cuối cùng upstream nhận được,
// để test pin được model/max_tokens/temperature từng thao tác.
type capturedRequest struct {
	mu   sync.Mutex
	last chatCompletionRequest
}

func (c *capturedRequest) get() chatCompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// fakeUpstream dựng httptest server giả lập endpoint chat completions.
func fakeUpstream(t *testing.T, statusCode int, content string) (*httptest.Server, *atomic.Int64, *capturedRequest) {
	t.Helper()
	var requests atomic.Int64
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var reqBody chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		captured.mu.Lock()
		captured.last = reqBody
		captured.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if statusCode == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": content}},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "upstream hỏng"},
		})
	}))
	t.Cleanup(server.Close)
	return server, &requests, captured
}

func newTestService(server *httptest.Server) *AITextService {
	return NewAITextServiceWithClient(server.URL, "test-key", "gpt-test", server.Client())
}

func TestSummarizeShortTextSkipsUpstream(t *testing.T) {
	server, requests, _ := fakeUpstream(t, http.StatusOK, "không được gọi")
	svc := newTestService(server)

	summary := svc.SummarizeText(context.Background(), "ngắn quá")

	assert.Equal(t, "Text too short for summarization", summary)
	assert.Zero(t, requests.Load(), "văn bản dưới ngưỡng không được gọi upstream")
}

func TestSummarizeReturnsUpstreamContent(t *testing.T) {
	server, requests, _ := fakeUpstream(t, http.StatusOK, "Bản tóm tắt ngắn gọn.")
	svc := newTestService(server)

	text := strings.Repeat("nội dung dài để vượt ngưỡng tối thiểu ", 5)
	summary := svc.SummarizeText(context.Background(), text)

	assert.Equal(t, "Bản tóm tắt ngắn gọn.", summary)
	assert.Equal(t, int64(1), requests.Load())
}

func TestSummarizeFallbackOnUpstreamError(t *testing.T) {
	server, _, _ := fakeUpstream(t, http.StatusInternalServerError, "")
	svc := newTestService(server)

	text := strings.Repeat("nội dung dài để vượt ngưỡng tối thiểu ", 5)
	summary := svc.SummarizeText(context.Background(), text)

	assert.Equal(t, "Error generating summary", summary, "lỗi gọi upstream phải được nuốt thành fallback lỗi")
}

func TestSummarizeEmptyCompletionFallback(t *testing.T) {
	// Upstream trả 200 nhưng content rỗng: thông báo fallback khác với lỗi gọi API.
	server, _, _ := fakeUpstream(t, http.StatusOK, "")
	svc := newTestService(server)

	text := strings.Repeat("nội dung dài để vượt ngưỡng tối thiểu ", 5)
	summary := svc.SummarizeText(context.Background(), text)

	assert.Equal(t, "Unable to generate summary", summary)
}

func TestExtractTagsParsesCommaSeparated(t *testing.T) {
	server, _, _ := fakeUpstream(t, http.StatusOK, "work, học tập ,  , ideas,")
	svc := newTestService(server)

	tags := svc.ExtractTags(context.Background(), "một đoạn văn bản")

	assert.Equal(t, []string{"work", "học tập", "ideas"}, tags, "tag rỗng và whitespace phải bị loại")
}

func TestExtractTagsBlankInputSkipsUpstream(t *testing.T) {
	server, requests, _ := fakeUpstream(t, http.StatusOK, "a, b")
	svc := newTestService(server)

	tags := svc.ExtractTags(context.Background(), "   \t\n  ")

	assert.Empty(t, tags)
	assert.Zero(t, requests.Load())
}

func TestExtractTagsFallbackOnError(t *testing.T) {
	server, _, _ := fakeUpstream(t, http.StatusBadGateway, "")
	svc := newTestService(server)

	tags := svc.ExtractTags(context.Background(), "một đoạn văn bản")

	assert.NotNil(t, tags)
	assert.Empty(t, tags, "lỗi upstream trả về mảng rỗng, không phải nil hay error")
}

func TestGenerateSmartReminderFallback(t *testing.T) {
	server, _, _ := fakeUpstream(t, http.StatusServiceUnavailable, "")
	svc := newTestService(server)

	message := svc.GenerateSmartReminder(context.Background(), "Họp team", "nội dung họp")

	assert.Equal(t, "Review your note: Họp team", message)
}

func TestGenerateSmartReminderSuccess(t *testing.T) {
	server, _, _ := fakeUpstream(t, http.StatusOK, "Đừng quên chuẩn bị agenda cho buổi họp!")
	svc := newTestService(server)

	message := svc.GenerateSmartReminder(context.Background(), "Họp team", "nội dung họp")

	assert.Equal(t, "Đừng quên chuẩn bị agenda cho buổi họp!", message)
}

func TestEnhanceTextFallbackReturnsInput(t *testing.T) {
	server, _, _ := fakeUpstream(t, http.StatusInternalServerError, "")
	svc := newTestService(server)

	original := "van ban co loi chinh ta"
	assert.Equal(t, original, svc.EnhanceText(context.Background(), original),
		"enhance lỗi phải trả về nguyên văn đầu vào")
}

func TestRequestParametersPerOperation(t *testing.T) {
	// Mỗi thao tác có cặp max_tokens/temperature riêng, không được lẫn nhau.
	server, _, captured := fakeUpstream(t, http.StatusOK, "ok")
	svc := newTestService(server)

	longText := strings.Repeat("nội dung dài để vượt ngưỡng tối thiểu ", 5)

	svc.SummarizeText(context.Background(), longText)
	req := captured.get()
	assert.Equal(t, "gpt-test", req.Model)
	assert.Equal(t, 200, req.MaxTokens)
	assert.Equal(t, 0.3, req.Temperature)

	svc.ExtractTags(context.Background(), "văn bản cần gắn tag")
	req = captured.get()
	assert.Equal(t, 100, req.MaxTokens)
	assert.Equal(t, 0.2, req.Temperature)

	svc.GenerateSmartReminder(context.Background(), "Họp team", "nội dung")
	req = captured.get()
	assert.Equal(t, 150, req.MaxTokens)
	assert.Equal(t, 0.5, req.Temperature)

	shortInput := "sửa giúp câu này"
	svc.EnhanceText(context.Background(), shortInput)
	req = captured.get()
	assert.Equal(t, 2*len(shortInput), req.MaxTokens)
	assert.Equal(t, 0.3, req.Temperature)

	svc.EnhanceText(context.Background(), strings.Repeat(longText, 2))
	req = captured.get()
	assert.Equal(t, 1000, req.MaxTokens, "max_tokens của enhance bị chặn trần 1000")
}

func TestMissingAPIKeyFallsBackWithoutRequest(t *testing.T) {
	server, requests, _ := fakeUpstream(t, http.StatusOK, "không được gọi")
	svc := NewAITextServiceWithClient(server.URL, "", "gpt-test", server.Client())

	text := strings.Repeat("nội dung dài để vượt ngưỡng tối thiểu ", 5)
	assert.Equal(t, "Error generating summary", svc.SummarizeText(context.Background(), text))
	assert.Empty(t, svc.ExtractTags(context.Background(), "văn bản"))
	assert.Equal(t, "Review your note: X", svc.GenerateSmartReminder(context.Background(), "X", ""))
	assert.Zero(t, requests.Load(), "thiếu API key thì không có request nào rời khỏi process")
}
