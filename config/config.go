package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Toàn bộ cấu hình đọc từ environment variables (file config/env/<GO_ENV>.env nếu có).
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`          // Địa chỉ server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`     // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"ainotes"` // Tên database chứa notes

	// CORS / Rate limit
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Firebase Authentication (xác thực ID token từ frontend)
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`              // Firebase Project ID
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`        // Đường dẫn đến service account JSON
	AuthDisabled            bool   `env:"AUTH_DISABLED" envDefault:"false"` // Tắt xác thực (chỉ dùng cho dev/test, lấy user từ header X-User-ID)

	// OpenAI (AI Text Service)
	OpenAI_APIKey  string `env:"OPENAI_API_KEY"`                                          // API key gọi chat completions
	OpenAI_BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"` // Base URL (đổi được sang endpoint tương thích)
	OpenAI_Model   string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`                // Model mặc định
	OpenAI_Timeout int    `env:"OPENAI_TIMEOUT" envDefault:"30"`                         // Timeout gọi API (giây)

	// Speech transcription sessions
	Speech_Enabled    bool `env:"SPEECH_ENABLED" envDefault:"true"` // Tắt = mọi session trả về unsupported
	Speech_MaxIdleSec int  `env:"SPEECH_MAX_IDLE" envDefault:"300"` // Session không nhận segment quá lâu sẽ bị dọn

	// Live subscription
	ChangeStream_Enabled bool `env:"CHANGE_STREAM_ENABLED" envDefault:"true"` // Watch thay đổi từ client khác (cần replica set)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường.
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	environment := os.Getenv("GO_ENV")
	if environment == "" {
		environment = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Tìm thư mục config/env bằng cách đi lên từ working directory
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", environment))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc dữ liệu cấu hình từ file env (nếu tìm thấy) và environment variables.
// File env không bắt buộc — khi chạy trong container, cấu hình thường truyền thẳng qua env.
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v (dùng environment hiện tại)\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
