package utility

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	firebaseApp  *firebase.App
	firebaseAuth *auth.Client
)

// findProjectDir tìm thư mục gốc project (thư mục chứa config/env)
func findProjectDir() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", fmt.Errorf("không tìm thấy thư mục gốc project")
		}
		currentDir = parentDir
	}
}

// InitFirebase khởi tạo Firebase Admin SDK để xác thực ID token từ frontend.
// credentialsPath relative được resolve từ thư mục gốc project.
func InitFirebase(projectID, credentialsPath string) error {
	if projectID == "" {
		return fmt.Errorf("thiếu FIREBASE_PROJECT_ID")
	}

	if credentialsPath != "" && !filepath.IsAbs(credentialsPath) {
		projectDir, err := findProjectDir()
		if err != nil {
			return err
		}
		credentialsPath = filepath.Join(projectDir, credentialsPath)
	}

	opts := []option.ClientOption{}
	if credentialsPath != "" {
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			return fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
		}
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := firebase.NewApp(context.Background(), &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return fmt.Errorf("khởi tạo Firebase app thất bại: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		return fmt.Errorf("khởi tạo Firebase auth client thất bại: %w", err)
	}

	firebaseApp = app
	firebaseAuth = authClient
	return nil
}

// VerifyIDToken xác thực Firebase ID token, trả về UID của user.
func VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	if firebaseAuth == nil {
		return "", fmt.Errorf("firebase auth chưa được khởi tạo")
	}
	token, err := firebaseAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

// FirebaseReady cho biết Firebase Admin SDK đã init thành công chưa.
func FirebaseReady() bool {
	return firebaseAuth != nil
}
