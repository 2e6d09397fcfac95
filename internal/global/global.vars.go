package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ThisaruSanduthilina/AI-Notes-App/config"
	"github.com/ThisaruSanduthilina/AI-Notes-App/internal/registry"
)

// CollectionNames chứa tên các collection trong MongoDB
type CollectionNames struct {
	Notes string // Tên collection cho ghi chú của người dùng
}

// Các biến toàn cục
var Validate *validator.Validate            // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client           // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration      // Cấu hình của server
var MongoDB_ColNames = CollectionNames{}    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
