package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the environment configuration for the whole application.
type Config struct {
	Port string

	// GCP
	ProjectID                string
	FirestoreCredentialsFile string
	GCPCreds                 string

	// Firebase Auth project (defaults to ProjectID)
	FirebaseProjectID string

	// CORS
	AllowedOrigin string

	// Cloudinary (product images)
	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	// SendGrid (transactional mail)
	SendGridAPIKey   string
	SendGridFrom     string
	SendGridFromName string

	// Secret Manager secret holding the admin registration secret
	AdminSecretName string

	// Guest cart spool directory (empty = os.TempDir default)
	GuestStoreDir string
}

// Load reads .env (best-effort) and the environment and returns a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	defaultProject := getenvDefault("GCP_PROJECT_ID", "caterhub-dev")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		ProjectID:                getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		FirebaseProjectID: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		AllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryUploadPreset: getenvDefault("CLOUDINARY_UPLOAD_PRESET", "catering"),

		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:     os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName: getenvDefault("SENDGRID_FROM_NAME", "CaterHub"),

		AdminSecretName: getenvDefault("ADMIN_SECRET_NAME", "caterhub-admin-secret"),

		GuestStoreDir: os.Getenv("GUEST_CART_DIR"),
	}
}

// GetProjectID returns the Firestore/GCP project ID.
func (c *Config) GetProjectID() string {
	return c.ProjectID
}

// GetFirebaseProjectID returns the Firebase Auth project ID.
func (c *Config) GetFirebaseProjectID() string {
	if strings.TrimSpace(c.FirebaseProjectID) != "" {
		return c.FirebaseProjectID
	}
	return c.ProjectID
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
